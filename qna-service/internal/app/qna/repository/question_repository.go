package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umsshop/pkg/logger"
	"umsshop/qna-service/internal/app/qna/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "questions"

type questionRepository struct {
	collection *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) QuestionRepository {
	return &questionRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes индексы по productId и userSeq для выборок списков
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("productId_idx"),
		},
		{
			Keys:    bson.D{{Key: "userSeq", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userSeq_idx"),
		},
	}

	names, err := db.Collection(collectionName).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}
	logger.Debug().Strs("indexes", names).Msg("Question indexes ensured")
	return nil
}

func (r *questionRepository) Create(ctx context.Context, q *entity.Question) error {
	result, err := r.collection.InsertOne(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		q.ID = oid
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var q entity.Question
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

func (r *questionRepository) ListByProduct(ctx context.Context, productID string) ([]entity.Question, error) {
	return r.find(ctx, bson.M{"productId": productID})
}

func (r *questionRepository) ListByUser(ctx context.Context, userSeq int64) ([]entity.Question, error) {
	return r.find(ctx, bson.M{"userSeq": userSeq})
}

// find новые вопросы сверху
func (r *questionRepository) find(ctx context.Context, filter bson.M) ([]entity.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}
	defer cursor.Close(ctx)

	questions := []entity.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) (*entity.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"answer":     answer,
		"answeredBy": answeredBy,
		"answeredAt": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var q entity.Question
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}
	return &q, nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
