package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devtinder/internal/models"
	"devtinder/internal/repositories"

	"github.com/google/uuid"
)

// ConnectionService drives the connection request workflow.
type ConnectionService struct {
	userRepo    repositories.UserRepository
	requestRepo repositories.ConnectionRequestRepository
	events      EventPublisher
}

// NewConnectionService creates a new ConnectionService. events may be nil.
func NewConnectionService(userRepo repositories.UserRepository, requestRepo repositories.ConnectionRequestRepository, events EventPublisher) *ConnectionService {
	return &ConnectionService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		events:      events,
	}
}

// PendingRequest is an interested request addressed to the caller, with its sender.
type PendingRequest struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	FromUser  models.PublicUser `json:"fromUserId"`
	CreatedAt time.Time         `json:"createdAt"`
}

func isWellFormedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Send records from's interest in (or dismissal of) to. It returns the stored request and the
// recipient.
func (s *ConnectionService) Send(ctx context.Context, from *models.User, toUserID, rawStatus string) (*models.ConnectionRequest, *models.User, error) {
	status := models.ParseConnectionStatus(rawStatus)
	if status != models.StatusInterested && status != models.StatusIgnored {
		return nil, nil, with(ErrInvalidStatus, fmt.Sprintf("Invalid status type: %s", rawStatus))
	}
	if !isWellFormedID(toUserID) {
		return nil, nil, with(ErrInvalidID, "Invalid user id")
	}

	toUser, err := s.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, with(ErrNotFound, "User not found")
		}
		return nil, nil, internal("send request lookup", err)
	}
	if from.ID == toUser.ID {
		return nil, nil, ErrSelfRequest
	}

	if _, err := s.requestRepo.FindByPair(ctx, from.ID, toUser.ID); err == nil {
		return nil, nil, ErrDuplicateRequest
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, internal("send request pair lookup", err)
	}

	req := &models.ConnectionRequest{
		ID:         uuid.New().String(),
		FromUserID: from.ID,
		ToUserID:   toUser.ID,
		Status:     status,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil, ErrDuplicateRequest
		}
		return nil, nil, internal("create connection request", err)
	}

	publish(s.events, EventRequestSent, map[string]interface{}{
		"requestId":  req.ID,
		"fromUserId": req.FromUserID,
		"toUserId":   req.ToUserID,
		"status":     string(req.Status),
	})
	return req, toUser, nil
}

// Review lets the recipient of a pending request accept or reject it. It returns the updated
// request and its sender.
func (s *ConnectionService) Review(ctx context.Context, reviewer *models.User, requestID, rawStatus string) (*models.ConnectionRequest, *models.User, error) {
	status := models.ParseConnectionStatus(rawStatus)
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, nil, with(ErrInvalidStatus, fmt.Sprintf("Invalid status type: %s", rawStatus))
	}
	if !isWellFormedID(requestID) {
		return nil, nil, with(ErrInvalidID, "Invalid request id")
	}

	req, err := s.requestRepo.FindPending(ctx, requestID, reviewer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, with(ErrNotFound, "Connection request not found")
		}
		return nil, nil, internal("review lookup", err)
	}

	sender, err := s.userRepo.GetByID(ctx, req.FromUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrSenderNotFound
		}
		return nil, nil, internal("review sender lookup", err)
	}

	if err := s.requestRepo.UpdateStatusIfPending(ctx, req.ID, reviewer.ID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Another review resolved it between the lookup and the update.
			return nil, nil, with(ErrNotFound, "Connection request not found")
		}
		return nil, nil, internal("review update", err)
	}
	req.Status = status

	publish(s.events, EventRequestReviewed, map[string]interface{}{
		"requestId":  req.ID,
		"fromUserId": req.FromUserID,
		"toUserId":   req.ToUserID,
		"status":     string(req.Status),
	})
	return req, sender, nil
}

// IsConnected reports whether an accepted request links a and b.
func (s *ConnectionService) IsConnected(ctx context.Context, a, b string) (bool, error) {
	ok, err := s.requestRepo.ExistsAccepted(ctx, a, b)
	if err != nil {
		return false, internal("connection check", err)
	}
	return ok, nil
}

// PendingRequests lists interested requests addressed to user, with each sender's profile.
// Requests whose sender no longer exists are skipped.
func (s *ConnectionService) PendingRequests(ctx context.Context, user *models.User) ([]PendingRequest, error) {
	reqs, err := s.requestRepo.ListByRecipient(ctx, user.ID, models.StatusInterested)
	if err != nil {
		return nil, internal("list pending requests", err)
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.FromUserID)
	}
	senders, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PendingRequest, 0, len(reqs))
	for _, r := range reqs {
		sender, ok := senders[r.FromUserID]
		if !ok {
			continue
		}
		out = append(out, PendingRequest{
			ID:        r.ID,
			Status:    string(r.Status),
			FromUser:  sender.Public(false),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Connections lists the profiles of everyone user has an accepted request with.
func (s *ConnectionService) Connections(ctx context.Context, user *models.User) ([]models.PublicUser, error) {
	reqs, err := s.requestRepo.ListAccepted(ctx, user.ID)
	if err != nil {
		return nil, internal("list connections", err)
	}

	ids := make([]string, 0, len(reqs))
	for i := range reqs {
		ids = append(ids, reqs[i].Counterpart(user.ID))
	}
	others, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PublicUser, 0, len(ids))
	for _, id := range ids {
		if u, ok := others[id]; ok {
			out = append(out, u.Public(false))
		}
	}
	return out, nil
}

func (s *ConnectionService) usersByID(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internal("load users", err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
