package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pyqbank/internal/apperr"
	"pyqbank/internal/model"
)

// SubjectRepo handles the controlled subject/topic taxonomy.
type SubjectRepo interface {
	EnsureIndexes(ctx context.Context) error
	GetActive(ctx context.Context) ([]*model.Subject, error)
	GetByName(ctx context.Context, name string) (*model.Subject, error)
	ActiveNames(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	// Seed inserts the fixed taxonomy once; it is a no-op when the collection
	// already has data.
	Seed(ctx context.Context, subjects []*model.Subject) (int, error)
}

type subjectRepo struct {
	collection *mongo.Collection
}

func NewSubjectRepo(db *mongo.Database) SubjectRepo {
	return &subjectRepo{
		collection: db.Collection("subjects"),
	}
}

func (r *subjectRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("subject_name_unique"),
		},
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("subject_code_unique"),
		},
		{
			Keys:    bson.D{{Key: "displayOrder", Value: 1}},
			Options: options.Index().SetName("display_order"),
		},
	})
	return err
}

func (r *subjectRepo) GetActive(ctx context.Context) ([]*model.Subject, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subjects := []*model.Subject{}
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	var subject model.Subject
	err := r.collection.FindOne(ctx, bson.M{"name": name, "isActive": true}).Decode(&subject)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ActiveNames(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "name", bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

func (r *subjectRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *subjectRepo) Seed(ctx context.Context, subjects []*model.Subject) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, apperr.ErrConflict
	}

	now := time.Now()
	docs := make([]interface{}, len(subjects))
	for i, s := range subjects {
		s.IsActive = true
		s.CreatedAt = now
		s.UpdatedAt = now
		for j := range s.Topics {
			s.Topics[j].IsActive = true
		}
		docs[i] = s
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}
