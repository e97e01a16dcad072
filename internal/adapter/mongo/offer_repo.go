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

const offerCollection = "offers"

type offerRepository struct {
	collection *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) repository.OfferRepository {
	return &offerRepository{collection: db.Collection(offerCollection)}
}

func (r *offerRepository) Create(ctx context.Context, offer *entity.Offer) (string, error) {
	offer.ID = primitive.NewObjectID().Hex()
	if _, err := r.collection.InsertOne(ctx, offer); err != nil {
		return "", fmt.Errorf("failed to create offer: %w", err)
	}
	return offer.ID, nil
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	var offer entity.Offer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer %s: %w", id, err)
	}
	return &offer, nil
}

func (r *offerRepository) UpdateStatus(ctx context.Context, id string, status entity.OfferStatus, updatedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": updatedAt.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update offer %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *offerRepository) Find(ctx context.Context, filter repository.OfferFilter) ([]entity.Offer, error) {
	query := bson.M{}
	if filter.ListingID != "" {
		query["listing_id"] = filter.ListingID
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}
	if filter.BuyerID != "" {
		query["buyer_id"] = filter.BuyerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []entity.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

func (r *offerRepository) DeclinePendingForListing(ctx context.Context, listingID, exceptOfferID string, now time.Time) ([]entity.Offer, error) {
	query := bson.M{
		"listing_id": listingID,
		"status":     entity.OfferPending,
		"_id":        bson.M{"$ne": exceptOfferID},
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending offers for listing %s: %w", listingID, err)
	}
	var declined []entity.Offer
	if err = cursor.All(ctx, &declined); err != nil {
		return nil, fmt.Errorf("failed to decode pending offers: %w", err)
	}

	_, err = r.collection.UpdateMany(ctx, query,
		bson.M{"$set": bson.M{"status": entity.OfferDeclined, "updated_at": now.UTC()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decline pending offers for listing %s: %w", listingID, err)
	}
	return declined, nil
}

func (r *offerRepository) FindExpired(ctx context.Context, now time.Time) ([]entity.Offer, error) {
	query := bson.M{
		"status":     entity.OfferPending,
		"expires_at": bson.M{"$lt": now.UTC()},
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []entity.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode expired offers: %w", err)
	}
	return offers, nil
}
