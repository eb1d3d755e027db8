package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pyqbank/internal/model"
)

// SearchStrategy resolves a normalized search request into one ranked page of
// active questions plus the total match count. The three implementations are
// interchangeable; which one a deployment runs is a construction-time choice.
type SearchStrategy interface {
	Search(ctx context.Context, req model.SearchRequest) ([]*model.Question, int64, error)
}

// applyFilters adds the structured filters to a query document. Empty slices
// and empty strings are ignored. The isActive predicate is NOT set here; every
// strategy applies it unconditionally before filters.
func applyFilters(query bson.M, f model.SearchFilters) {
	if len(f.Years) > 0 {
		query["year"] = bson.M{"$in": f.Years}
	}
	if f.ExamType != "" {
		query["examType"] = strings.ToLower(f.ExamType)
	}
	if len(f.Subjects) > 0 {
		query["subject"] = bson.M{"$in": f.Subjects}
	}
	if len(f.Topics) > 0 {
		query["topic"] = bson.M{"$in": f.Topics}
	}
	if f.Difficulty != "" {
		query["difficulty"] = strings.ToLower(f.Difficulty)
	}
	if f.HasAnswer != nil {
		query["hasAnswer"] = *f.HasAnswer
	}
	if f.IsVerified != nil {
		query["isVerified"] = *f.IsVerified
	}
}

// requestedSort maps the request's sortBy/sortOrder onto a Mongo sort document.
func requestedSort(req model.SearchRequest) bson.D {
	order := -1
	if req.SortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: req.SortBy, Value: order}}
}

// findPage executes a filter+sort query with pagination and returns the page
// plus the total match count.
func findPage(ctx context.Context, coll *mongo.Collection, query bson.M, sortDoc bson.D, projection bson.M, page, limit int) ([]*model.Question, int64, error) {
	skip := int64((page - 1) * limit)

	findOpts := options.Find().
		SetSort(sortDoc).
		SetSkip(skip).
		SetLimit(int64(limit))
	if projection != nil {
		findOpts.SetProjection(projection)
	}

	cursor, err := coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	questions := []*model.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, 0, err
	}

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}
