package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/repository"
)

const wantedCollection = "wanted_posts"

type wantedRepository struct {
	collection *mongo.Collection
}

func NewWantedRepository(db *mongo.Database) repository.WantedRepository {
	return &wantedRepository{collection: db.Collection(wantedCollection)}
}

func (r *wantedRepository) Create(ctx context.Context, post *entity.WantedPost) (string, error) {
	post.ID = primitive.NewObjectID().Hex()
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create wanted post: %w", err)
	}
	return post.ID, nil
}

func (r *wantedRepository) GetByID(ctx context.Context, id string) (*entity.WantedPost, error) {
	var post entity.WantedPost
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wanted post %s: %w", id, err)
	}
	return &post, nil
}

func (r *wantedRepository) UpdateStatus(ctx context.Context, id string, status entity.WantedStatus, updatedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": updatedAt.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update wanted post %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *wantedRepository) Find(ctx context.Context, filter repository.WantedFilter) ([]entity.WantedPost, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Game != "" {
		query["game"] = filter.Game
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Query != "" {
		query["$text"] = bson.M{"$search": filter.Query}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find wanted posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []entity.WantedPost
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode wanted posts: %w", err)
	}
	return posts, nil
}
