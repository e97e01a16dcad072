package service

import (
	"context"
	"errors"
	"time"

	"github.com/tcgbay/marketplace/internal/domain/entity"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/repository"
)

type WantedService interface {
	Create(ctx context.Context, userID, title, game string, maxPrice float64, notes string) (*entity.WantedPost, error)
	Close(ctx context.Context, id, userID string, fulfilled bool) (*entity.WantedPost, error)
	Browse(ctx context.Context, filter repository.WantedFilter) ([]entity.WantedPost, error)
}

type wantedService struct {
	wanted repository.WantedRepository
	log    logger.Logger
	now    nowFunc
}

func NewWantedService(wanted repository.WantedRepository, log logger.Logger) WantedService {
	return &wantedService{wanted: wanted, log: log, now: time.Now}
}

func (s *wantedService) Create(ctx context.Context, userID, title, game string, maxPrice float64, notes string) (*entity.WantedPost, error) {
	post, err := entity.NewWantedPost(userID, title, game, maxPrice, notes, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.wanted.Create(ctx, post); err != nil {
		return nil, err
	}
	s.log.Infof("wanted post %s created by user %s", post.ID, userID)
	return post, nil
}

func (s *wantedService) Close(ctx context.Context, id, userID string, fulfilled bool) (*entity.WantedPost, error) {
	post, err := s.wanted.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWantedNotFound
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	if err := post.Close(s.now(), fulfilled); err != nil {
		return nil, err
	}
	if err := s.wanted.UpdateStatus(ctx, post.ID, post.Status, post.UpdatedAt); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *wantedService) Browse(ctx context.Context, filter repository.WantedFilter) ([]entity.WantedPost, error) {
	if filter.Status == "" {
		filter.Status = entity.WantedOpen
	}
	return s.wanted.Find(ctx, filter)
}
