package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pyqbank/internal/model"
)

// AtlasSearch queries a cloud-hosted Atlas Search index with autocomplete-style
// prefix matching. Best recall of the three strategies, at the cost of an
// external managed index and a network round-trip.
type AtlasSearch struct {
	collection *mongo.Collection
	index      string
}

func NewAtlasSearch(db *mongo.Database, index string) *AtlasSearch {
	return &AtlasSearch{
		collection: db.Collection("questions"),
		index:      index,
	}
}

func (s *AtlasSearch) Search(ctx context.Context, req model.SearchRequest) ([]*model.Question, int64, error) {
	if !req.HasKeyword() {
		// Nothing to rank; plain filter+sort is what the fallback does anyway.
		query := bson.M{"isActive": true}
		applyFilters(query, req.Filters)
		return findPage(ctx, s.collection, query, requestedSort(req), bson.M{"searchableText": 0}, req.Page, req.Limit)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$search", Value: s.searchStage(req)}},
		bson.D{{Key: "$addFields", Value: bson.M{"score": bson.M{"$meta": "searchScore"}}}},
	}
	// Filters the $search compound cannot express go through a $match stage.
	if extra := extraMatch(req.Filters); len(extra) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: extra}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}, {Key: "year", Value: -1}}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"results": bson.A{
				bson.M{"$skip": (req.Page - 1) * req.Limit},
				bson.M{"$limit": req.Limit},
				bson.M{"$project": bson.M{"searchableText": 0, "score": 0}},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	)

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Results []*model.Question                      `bson:"results"`
		Total   []struct{ Count int64 `bson:"count"` } `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []*model.Question{}, 0, nil
	}

	questions := rows[0].Results
	if questions == nil {
		questions = []*model.Question{}
	}
	var total int64
	if len(rows[0].Total) > 0 {
		total = rows[0].Total[0].Count
	}
	return questions, total, nil
}

// searchStage builds the compound $search query: prefix matches on the content
// fields with descending boosts, OR'd with a full-text match on explanation,
// ANDed with the equality filters and the unconditional isActive predicate.
func (s *AtlasSearch) searchStage(req model.SearchRequest) bson.M {
	should := bson.A{
		autocompleteClause(req.Keyword, "questionText", 10),
		autocompleteClause(req.Keyword, "subject", 7),
		autocompleteClause(req.Keyword, "topic", 5),
		bson.M{"text": bson.M{
			"query": req.Keyword,
			"path":  "explanation",
			"score": bson.M{"boost": bson.M{"value": 3}},
		}},
	}

	must := bson.A{
		bson.M{"equals": bson.M{"path": "isActive", "value": true}},
	}
	f := req.Filters
	if len(f.Years) == 1 {
		must = append(must, bson.M{"equals": bson.M{"path": "year", "value": f.Years[0]}})
	}
	if f.ExamType != "" {
		must = append(must, bson.M{"equals": bson.M{"path": "examType", "value": f.ExamType}})
	}
	if len(f.Subjects) == 1 {
		must = append(must, bson.M{"regex": bson.M{
			"path":               "subject",
			"query":              f.Subjects[0],
			"allowAnalyzedField": true,
		}})
	}

	return bson.M{
		"index": s.index,
		"compound": bson.M{
			"should":             should,
			"must":               must,
			"minimumShouldMatch": 1,
		},
	}
}

func autocompleteClause(keyword, path string, boost int) bson.M {
	return bson.M{"autocomplete": bson.M{
		"query": keyword,
		"path":  path,
		"score": bson.M{"boost": bson.M{"value": boost}},
	}}
}

// extraMatch covers the filters the $search stage did not consume.
func extraMatch(f model.SearchFilters) bson.M {
	match := bson.M{}
	if len(f.Years) > 1 {
		match["year"] = bson.M{"$in": f.Years}
	}
	if len(f.Subjects) > 1 {
		match["subject"] = bson.M{"$in": f.Subjects}
	}
	if len(f.Topics) > 0 {
		match["topic"] = bson.M{"$in": f.Topics}
	}
	if f.Difficulty != "" {
		match["difficulty"] = f.Difficulty
	}
	if f.HasAnswer != nil {
		match["hasAnswer"] = *f.HasAnswer
	}
	if f.IsVerified != nil {
		match["isVerified"] = *f.IsVerified
	}
	return match
}
