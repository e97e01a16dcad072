package repository

import (
	"context"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
)

type WantedFilter struct {
	UserID string
	Game   string
	Status entity.WantedStatus
	Query  string
}

type WantedRepository interface {
	Create(ctx context.Context, post *entity.WantedPost) (string, error)
	GetByID(ctx context.Context, id string) (*entity.WantedPost, error)
	UpdateStatus(ctx context.Context, id string, status entity.WantedStatus, updatedAt time.Time) error
	Find(ctx context.Context, filter WantedFilter) ([]entity.WantedPost, error)
}

type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	// GetByListingAndBuyer enforces the one-thread-per-(listing,buyer) rule.
	GetByListingAndBuyer(ctx context.Context, listingID, buyerID string) (*entity.Thread, error)
	Update(ctx context.Context, thread *entity.Thread) error
	ListByParticipant(ctx context.Context, userID string) ([]entity.Thread, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) (string, error)
	ListByThread(ctx context.Context, threadID string) ([]entity.Message, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Upsert(ctx context.Context, user *entity.User) error
}
