package repository

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pyqbank/internal/model"
)

// stemSuffixes are stripped from a keyword before substring matching so that
// morphological variants still hit ("agriculture" matches "agricultural").
// Checked in this order; first hit wins.
var stemSuffixes = []string{"ure", "ural", "al", "ion", "ment", "ly"}

// SubstringSearch matches the keyword as a case-insensitive substring across
// the text and classification fields. Zero index infrastructure, higher recall,
// no relevance ranking: results are ordered by year desc, createdAt desc.
type SubstringSearch struct {
	collection *mongo.Collection
}

func NewSubstringSearch(db *mongo.Database) *SubstringSearch {
	return &SubstringSearch{collection: db.Collection("questions")}
}

func (s *SubstringSearch) Search(ctx context.Context, req model.SearchRequest) ([]*model.Question, int64, error) {
	query := bson.M{"isActive": true}
	applyFilters(query, req.Filters)

	var sortDoc bson.D
	if req.HasKeyword() {
		addKeywordClause(query, req.Keyword)
		sortDoc = bson.D{{Key: "year", Value: -1}, {Key: "createdAt", Value: -1}}
	} else {
		sortDoc = requestedSort(req)
	}

	return findPage(ctx, s.collection, query, sortDoc, bson.M{"searchableText": 0}, req.Page, req.Limit)
}

func addKeywordClause(query bson.M, keyword string) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(stemKeyword(keyword)), Options: "i"}
	query["$or"] = bson.A{
		bson.M{"questionText": pattern},
		bson.M{"explanation": pattern},
		bson.M{"subject": pattern},
		bson.M{"topic": pattern},
		bson.M{"examName": pattern},
		bson.M{"tags": bson.M{"$in": bson.A{pattern}}},
		bson.M{"keywords": bson.M{"$in": bson.A{pattern}}},
	}
}

// stemKeyword strips a known suffix when the remaining root is long enough to
// stay selective, trading precision for recall on word variants.
func stemKeyword(keyword string) string {
	lower := strings.ToLower(keyword)
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(lower, suffix) && len(keyword) > len(suffix)+3 {
			return keyword[:len(keyword)-len(suffix)]
		}
	}
	return keyword
}
