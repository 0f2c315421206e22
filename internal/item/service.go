package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type CommentRequest struct {
	ItemID   string
	AuthorID string
	Text     string
}

// UserFinder resolves user ids. user.Service satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequestLookup reports whether an item request exists.
type RequestLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	GetDetails(ctx context.Context, id, requesterID string) (*Details, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Details, error)
	ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error)
	Search(ctx context.Context, text string, page, pageSize int) ([]*Item, error)
	Update(ctx context.Context, id string, req UpdateRequest, requesterID string) (*Item, error)
	AddComment(ctx context.Context, req CommentRequest) (*Comment, error)
}

type service struct {
	repo     Repository
	users    UserFinder
	requests RequestLookup
	clock    clock.Clock
	log      *slog.Logger
}

func NewService(repo Repository, users UserFinder, requests RequestLookup, clk clock.Clock, log *slog.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		clock:    clk,
		log:      log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	if _, err := s.users.GetByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	// An unknown request id is dropped rather than rejected.
	requestID := req.RequestID
	if requestID != nil {
		ok, err := s.requests.Exists(ctx, *requestID)
		if err != nil {
			return nil, fmt.Errorf("check item request: %w", err)
		}
		if !ok {
			s.log.Debug("dropping unknown request id", slog.String("request_id", *requestID))
			requestID = nil
		}
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: description,
		Available:   req.Available,
		RequestID:   requestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetDetails(ctx context.Context, id, requesterID string) (*Details, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.enrich(ctx, []*Item{it}, it.OwnerID == requesterID)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Details, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, Filter{OwnerID: ownerID, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items, true)
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	return s.repo.List(ctx, Filter{RequestIDs: requestIDs})
}

func (s *service) Search(ctx context.Context, text string, page, pageSize int) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return s.repo.List(ctx, Filter{Text: text, AvailableOnly: true, Page: page, PageSize: pageSize})
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, requesterID string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Items are invisible for modification to anyone but their owner.
	if it.OwnerID != requesterID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) AddComment(ctx context.Context, req CommentRequest) (*Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	author, err := s.users.GetByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, req.ItemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.repo.HasFinishedBooking(ctx, req.AuthorID, req.ItemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotBookedByAuthor
	}

	c := &Comment{
		ItemID:     req.ItemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  now,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// enrich attaches comments to every item, and last/next bookings when withBookings is set.
func (s *service) enrich(ctx context.Context, items []*Item, withBookings bool) ([]*Details, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := s.repo.Comments(ctx, ids)
	if err != nil {
		return nil, err
	}

	var last, next map[string]*BookingBrief
	if withBookings {
		now := s.clock.Now()
		if last, err = s.repo.LastBookings(ctx, ids, now); err != nil {
			return nil, err
		}
		if next, err = s.repo.NextBookings(ctx, ids, now); err != nil {
			return nil, err
		}
	}

	out := make([]*Details, len(items))
	for i, it := range items {
		out[i] = &Details{
			Item:        it,
			LastBooking: last[it.ID],
			NextBooking: next[it.ID],
			Comments:    comments[it.ID],
		}
	}
	return out, nil
}
