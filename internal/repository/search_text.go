package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pyqbank/internal/model"
)

// TextSearch ranks with the weighted Mongo text index (questionText 10,
// keywords 7, tags 5, explanation 3). Best precision, but requires the index
// and misses morphological variants.
type TextSearch struct {
	collection *mongo.Collection
}

func NewTextSearch(db *mongo.Database) *TextSearch {
	return &TextSearch{collection: db.Collection("questions")}
}

func (s *TextSearch) Search(ctx context.Context, req model.SearchRequest) ([]*model.Question, int64, error) {
	query := bson.M{"isActive": true}
	applyFilters(query, req.Filters)

	projection := bson.M{"searchableText": 0}
	var sortDoc bson.D

	if req.HasKeyword() {
		query["$text"] = bson.M{"$search": req.Keyword}
		projection["score"] = bson.M{"$meta": "textScore"}
		// relevance first, recency as tie-break
		sortDoc = bson.D{
			{Key: "score", Value: bson.M{"$meta": "textScore"}},
			{Key: "year", Value: -1},
		}
	} else {
		sortDoc = requestedSort(req)
	}

	return findPage(ctx, s.collection, query, sortDoc, projection, req.Page, req.Limit)
}
