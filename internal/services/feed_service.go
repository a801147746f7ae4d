package services

import (
	"context"

	"devtinder/internal/feed"
	"devtinder/internal/models"
	"devtinder/internal/repositories"
)

// FeedService builds the discovery feed.
type FeedService struct {
	userRepo    repositories.UserRepository
	requestRepo repositories.ConnectionRequestRepository
}

// NewFeedService creates a new FeedService.
func NewFeedService(userRepo repositories.UserRepository, requestRepo repositories.ConnectionRequestRepository) *FeedService {
	return &FeedService{userRepo: userRepo, requestRepo: requestRepo}
}

// FeedPage is one page of the feed.
type FeedPage struct {
	Users      []models.PublicUser `json:"users"`
	Pagination feed.PageInfo       `json:"pagination"`
	Filters    feed.Filters        `json:"filters"`
}

// GetFeed returns users that user has no request with in either direction, filtered by p.
func (s *FeedService) GetFeed(ctx context.Context, user *models.User, p feed.Params) (*FeedPage, error) {
	involved, err := s.requestRepo.ListInvolving(ctx, user.ID)
	if err != nil {
		return nil, internal("feed exclusions", err)
	}

	q := feed.Build(user.ID, involved, p)
	page := feed.Paginate(p.Page, p.Limit)

	users, total, err := s.userRepo.FindFeed(ctx, q, page.Offset, page.Limit)
	if err != nil {
		return nil, internal("feed query", err)
	}

	return &FeedPage{
		Users:      models.PublicUsers(users),
		Pagination: feed.NewPageInfo(page, total),
		Filters:    q.Filters(),
	}, nil
}
