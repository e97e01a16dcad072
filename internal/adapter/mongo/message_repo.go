package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/repository"
)

const (
	threadCollection  = "threads"
	messageCollection = "messages"
)

type threadRepository struct {
	collection *mongo.Collection
}

func NewThreadRepository(db *mongo.Database) repository.ThreadRepository {
	return &threadRepository{collection: db.Collection(threadCollection)}
}

func (r *threadRepository) Create(ctx context.Context, thread *entity.Thread) (string, error) {
	thread.ID = primitive.NewObjectID().Hex()
	if _, err := r.collection.InsertOne(ctx, thread); err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	return thread.ID, nil
}

func (r *threadRepository) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	var thread entity.Thread
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&thread)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread %s: %w", id, err)
	}
	return &thread, nil
}

func (r *threadRepository) GetByListingAndBuyer(ctx context.Context, listingID, buyerID string) (*entity.Thread, error) {
	var thread entity.Thread
	err := r.collection.FindOne(ctx, bson.M{"listing_id": listingID, "buyer_id": buyerID}).Decode(&thread)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread for listing %s: %w", listingID, err)
	}
	return &thread, nil
}

func (r *threadRepository) Update(ctx context.Context, thread *entity.Thread) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": thread.ID}, thread)
	if err != nil {
		return fmt.Errorf("failed to update thread %s: %w", thread.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *threadRepository) ListByParticipant(ctx context.Context, userID string) ([]entity.Thread, error) {
	query := bson.M{"$or": []bson.M{
		{"seller_id": userID},
		{"buyer_id": userID},
	}}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer cursor.Close(ctx)

	var threads []entity.Thread
	if err = cursor.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode threads: %w", err)
	}
	return threads, nil
}

type messageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &messageRepository{collection: db.Collection(messageCollection)}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) (string, error) {
	message.ID = primitive.NewObjectID().Hex()
	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	return message.ID, nil
}

func (r *messageRepository) ListByThread(ctx context.Context, threadID string) ([]entity.Message, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"thread_id": threadID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for thread %s: %w", threadID, err)
	}
	defer cursor.Close(ctx)

	var messages []entity.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
