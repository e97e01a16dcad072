package service

import (
	"context"
	"errors"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

type MessageService interface {
	// StartThread opens (or returns) the conversation between the buyer and
	// the listing's seller.
	StartThread(ctx context.Context, listingID, buyerID string) (*entity.Thread, error)
	Post(ctx context.Context, threadID, senderID, body string) (*entity.Message, error)
	Threads(ctx context.Context, userID string) ([]entity.Thread, error)
	Messages(ctx context.Context, threadID, userID string) ([]entity.Message, error)
}

type messageService struct {
	threads  repository.ThreadRepository
	messages repository.MessageRepository
	listings ListingService
	log      logger.Logger
	now      nowFunc
}

func NewMessageService(
	threads repository.ThreadRepository,
	messages repository.MessageRepository,
	listings ListingService,
	log logger.Logger,
) MessageService {
	return &messageService{
		threads:  threads,
		messages: messages,
		listings: listings,
		log:      log,
		now:      time.Now,
	}
}

func (s *messageService) StartThread(ctx context.Context, listingID, buyerID string) (*entity.Thread, error) {
	existing, err := s.threads.GetByListingAndBuyer(ctx, listingID, buyerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	listing, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	thread, err := entity.NewThread(listingID, listing.UserID, buyerID, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.threads.Create(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *messageService) Post(ctx context.Context, threadID, senderID, body string) (*entity.Message, error) {
	thread, err := s.getThreadFor(ctx, threadID, senderID)
	if err != nil {
		return nil, err
	}

	message, err := entity.NewMessage(threadID, senderID, body, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	thread.RecordMessage(senderID, body, s.now())
	if err := s.threads.Update(ctx, thread); err != nil {
		s.log.Warnf("failed to update thread summary %s: %v", threadID, err)
	}
	return message, nil
}

func (s *messageService) Threads(ctx context.Context, userID string) ([]entity.Thread, error) {
	return s.threads.ListByParticipant(ctx, userID)
}

func (s *messageService) Messages(ctx context.Context, threadID, userID string) ([]entity.Message, error) {
	if _, err := s.getThreadFor(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListByThread(ctx, threadID)
}

func (s *messageService) getThreadFor(ctx context.Context, threadID, userID string) (*entity.Thread, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		s.log.Warnf("user %s attempted to access thread %s they are not part of", userID, threadID)
		return nil, ErrForbidden
	}
	return thread, nil
}
