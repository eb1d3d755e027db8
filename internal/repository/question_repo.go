package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pyqbank/internal/apperr"
	"pyqbank/internal/model"
)

// BulkWriteFailure reports one rejected document of a batch insert. Index is
// the position within the attempted batch.
type BulkWriteFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// QuestionRepo owns all persistence for questions. Write methods recompute the
// derived fields and enforce the document invariants regardless of what the
// caller already validated.
type QuestionRepo interface {
	EnsureIndexes(ctx context.Context) error

	Create(ctx context.Context, q *model.Question) error
	GetByQuestionID(ctx context.Context, id string) (*model.Question, error)
	Replace(ctx context.Context, q *model.Question) error
	SoftDelete(ctx context.Context, id, by string) error
	SoftDeleteMany(ctx context.Context, ids []string, by string) (int64, error)

	IncrementViewCount(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, id string, correct bool) error
	AdjustBookmarkCount(ctx context.Context, id string, delta int) error

	InsertMany(ctx context.Context, qs []*model.Question) (int, []BulkWriteFailure, error)
	Random(ctx context.Context, f model.SearchFilters) (*model.Question, error)

	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	Statistics(ctx context.Context) (*model.Statistics, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a question repository over the given database.
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "questionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("question_id_unique"),
		},
		{
			// Weighted full-text index backing the primary search strategy.
			Keys: bson.D{
				{Key: "questionText", Value: "text"},
				{Key: "keywords", Value: "text"},
				{Key: "tags", Value: "text"},
				{Key: "explanation", Value: "text"},
			},
			Options: options.Index().
				SetName("question_fulltext_search").
				SetWeights(bson.D{
					{Key: "questionText", Value: 10},
					{Key: "keywords", Value: 7},
					{Key: "tags", Value: 5},
					{Key: "explanation", Value: 3},
				}),
		},
		{
			Keys:    bson.D{{Key: "year", Value: 1}, {Key: "examType", Value: 1}, {Key: "subject", Value: 1}},
			Options: options.Index().SetName("year_exam_subject"),
		},
		{
			Keys:    bson.D{{Key: "examType", Value: 1}, {Key: "examName", Value: 1}, {Key: "year", Value: -1}},
			Options: options.Index().SetName("exam_name_year"),
		},
		{
			Keys:    bson.D{{Key: "subject", Value: 1}, {Key: "topic", Value: 1}},
			Options: options.Index().SetName("subject_topic"),
		},
		{
			Keys:    bson.D{{Key: "year", Value: -1}, {Key: "isActive", Value: 1}, {Key: "isVerified", Value: 1}},
			Options: options.Index().SetName("year_active_verified"),
		},
	})
	return err
}

// prepare normalizes and revalidates a question before it is persisted. The
// derived fields are always recomputed here so they cannot drift from the text
// fields, no matter which write path was taken.
func (r *questionRepo) prepare(q *model.Question, now time.Time) error {
	if q.QuestionID == "" {
		q.QuestionID = model.NewQuestionID()
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyMedium
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	if err := q.Validate(); err != nil {
		return err
	}
	q.SearchableText = q.ComputeSearchableText()
	q.HasAnswer = strings.TrimSpace(q.Explanation) != ""
	return nil
}

func (r *questionRepo) Create(ctx context.Context, q *model.Question) error {
	q.IsActive = true
	if err := r.prepare(q, time.Now()); err != nil {
		return err
	}
	_, err := r.collection.InsertOne(ctx, q)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrConflict
	}
	return err
}

func (r *questionRepo) GetByQuestionID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.collection.FindOne(ctx, bson.M{"questionId": id, "isActive": true}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) Replace(ctx context.Context, q *model.Question) error {
	if err := r.prepare(q, time.Now()); err != nil {
		return err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"questionId": q.QuestionID}, q)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *questionRepo) SoftDelete(ctx context.Context, id, by string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"questionId": id, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedBy": by, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *questionRepo) SoftDeleteMany(ctx context.Context, ids []string, by string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"questionId": bson.M{"$in": ids}, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedBy": by, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *questionRepo) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"questionId": id},
		bson.M{"$inc": bson.M{"viewCount": 1}},
	)
	return err
}

func (r *questionRepo) RecordAttempt(ctx context.Context, id string, correct bool) error {
	inc := bson.M{"attemptCount": 1}
	if correct {
		inc["correctAttemptCount"] = 1
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"questionId": id, "isActive": true},
		bson.M{"$inc": inc},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *questionRepo) AdjustBookmarkCount(ctx context.Context, id string, delta int) error {
	filter := bson.M{"questionId": id, "isActive": true}
	if delta < 0 {
		// never below zero
		filter["bookmarkCount"] = bson.M{"$gt": 0}
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"bookmarkCount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 && delta > 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// InsertMany commits a batch with ordered=false, so a constraint violation on
// one document never rolls back the others. Per-document failures come back as
// data, not as an error.
func (r *questionRepo) InsertMany(ctx context.Context, qs []*model.Question) (int, []BulkWriteFailure, error) {
	now := time.Now()
	var failures []BulkWriteFailure
	docs := make([]interface{}, 0, len(qs))
	// maps position in docs back to position in qs
	positions := make([]int, 0, len(qs))

	for i, q := range qs {
		q.IsActive = true
		if err := r.prepare(q, now); err != nil {
			failures = append(failures, BulkWriteFailure{Index: i, Message: err.Error()})
			continue
		}
		docs = append(docs, q)
		positions = append(positions, i)
	}

	if len(docs) == 0 {
		return 0, failures, nil
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		bwe, ok := err.(mongo.BulkWriteException)
		if !ok {
			return inserted, failures, err
		}
		for _, we := range bwe.WriteErrors {
			idx := we.Index
			if idx >= 0 && idx < len(positions) {
				idx = positions[idx]
			}
			failures = append(failures, BulkWriteFailure{Index: idx, Message: we.Message})
		}
		inserted = len(docs) - len(bwe.WriteErrors)
	}
	return inserted, failures, nil
}

func (r *questionRepo) Random(ctx context.Context, f model.SearchFilters) (*model.Question, error) {
	match := bson.M{"isActive": true}
	applyFilters(match, f)

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sample", Value: bson.M{"size": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

// FilterOptions recomputes the selectable facet values from the active question
// set. The four passes are independent read-only scans, so they run
// concurrently.
func (r *questionRepo) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{
		Years:     []int{},
		ExamTypes: []string{},
		Subjects:  []model.SubjectCount{},
		Topics:    map[string][]string{},
	}
	var yearsErr, typesErr, subjectsErr, topicsErr error

	done := make(chan struct{}, 4)
	go func() {
		defer func() { done <- struct{}{} }()
		opts.Years, yearsErr = r.distinctYears(ctx)
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		opts.ExamTypes, typesErr = r.distinctExamTypes(ctx)
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		opts.Subjects, subjectsErr = r.subjectCounts(ctx)
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		opts.Topics, topicsErr = r.topicsBySubject(ctx)
	}()
	for i := 0; i < 4; i++ {
		<-done
	}

	for _, err := range []error{yearsErr, typesErr, subjectsErr, topicsErr} {
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func (r *questionRepo) distinctYears(ctx context.Context) ([]int, error) {
	raw, err := r.collection.Distinct(ctx, "year", bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int32:
			years = append(years, int(n))
		case int64:
			years = append(years, int(n))
		case float64:
			years = append(years, int(n))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (r *questionRepo) distinctExamTypes(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "examType", bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			types = append(types, s)
		}
	}
	sort.Strings(types)
	return types, nil
}

func (r *questionRepo) subjectCounts(ctx context.Context) ([]model.SubjectCount, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"isActive": true}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$subject", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
		bson.D{{Key: "$project", Value: bson.M{"name": "$_id", "count": 1, "_id": 0}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subjects := []model.SubjectCount{}
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *questionRepo) topicsBySubject(ctx context.Context) (map[string][]string, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"isActive": true, "topic": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": bson.M{"subject": "$subject", "topic": "$topic"}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$_id.subject", "topics": bson.M{"$push": "$_id.topic"}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Subject string   `bson:"_id"`
		Topics  []string `bson:"topics"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	topics := make(map[string][]string, len(rows))
	for _, row := range rows {
		sort.Strings(row.Topics)
		topics[row.Subject] = row.Topics
	}
	return topics, nil
}

// Statistics runs one $facet pipeline over the active set. Every facet
// tolerates zero matching documents.
func (r *questionRepo) Statistics(ctx context.Context) (*model.Statistics, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"isActive": true}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "count"}},
			"byYear": bson.A{
				bson.M{"$group": bson.M{"_id": "$year", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"_id": -1}},
			},
			"byExamType": bson.A{
				bson.M{"$group": bson.M{"_id": "$examType", "count": bson.M{"$sum": 1}}},
			},
			"bySubject": bson.A{
				bson.M{"$group": bson.M{"_id": "$subject", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"count": -1}},
				bson.M{"$limit": 10},
			},
			"byDifficulty": bson.A{
				bson.M{"$group": bson.M{"_id": "$difficulty", "count": bson.M{"$sum": 1}}},
			},
			"withAnswers": bson.A{
				bson.M{"$match": bson.M{"hasAnswer": true}},
				bson.M{"$count": "count"},
			},
			"verified": bson.A{
				bson.M{"$match": bson.M{"isVerified": true}},
				bson.M{"$count": "count"},
			},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total        []struct{ Count int64 `bson:"count"` } `bson:"total"`
		ByYear       []model.YearCount                      `bson:"byYear"`
		ByExamType   []model.FacetCount                     `bson:"byExamType"`
		BySubject    []model.FacetCount                     `bson:"bySubject"`
		ByDifficulty []model.FacetCount                     `bson:"byDifficulty"`
		WithAnswers  []struct{ Count int64 `bson:"count"` } `bson:"withAnswers"`
		Verified     []struct{ Count int64 `bson:"count"` } `bson:"verified"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		ByYear:       []model.YearCount{},
		ByExamType:   []model.FacetCount{},
		BySubject:    []model.FacetCount{},
		ByDifficulty: []model.FacetCount{},
	}
	if len(rows) == 0 {
		return stats, nil
	}
	row := rows[0]
	if len(row.Total) > 0 {
		stats.Total = row.Total[0].Count
	}
	if len(row.WithAnswers) > 0 {
		stats.WithAnswers = row.WithAnswers[0].Count
	}
	if len(row.Verified) > 0 {
		stats.Verified = row.Verified[0].Count
	}
	if row.ByYear != nil {
		stats.ByYear = row.ByYear
	}
	if row.ByExamType != nil {
		stats.ByExamType = row.ByExamType
	}
	if row.BySubject != nil {
		stats.BySubject = row.BySubject
	}
	if row.ByDifficulty != nil {
		stats.ByDifficulty = row.ByDifficulty
	}
	return stats, nil
}
