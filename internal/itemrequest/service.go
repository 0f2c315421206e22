package itemrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemLister finds the items answering a set of requests. item.Service satisfies it.
type ItemLister interface {
	ListByRequests(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

// UserFinder resolves user ids. user.Service satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, id string) (*WithItems, error)
	// ListOwn returns every request of requesterID, newest first.
	ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error)
	// ListOthers pages through the requests of everyone except requesterID, newest first.
	ListOthers(ctx context.Context, requesterID string, page, pageSize int) ([]*WithItems, error)
}

type service struct {
	repo  Repository
	users UserFinder
	items ItemLister
}

func NewService(repo Repository, users UserFinder, items ItemLister) Service {
	return &service{repo: repo, users: users, items: items}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	r := &ItemRequest{
		RequesterID: requesterID,
		Description: description,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*WithItems, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.attachItems(ctx, []*ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, Filter{RequesterID: requesterID})
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

func (s *service) ListOthers(ctx context.Context, requesterID string, page, pageSize int) ([]*WithItems, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, Filter{ExcludeRequesterID: requesterID, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

func (s *service) requireUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrRequesterNotFound
		}
		return fmt.Errorf("resolve requester failed: %w", err)
	}
	return nil
}

func (s *service) attachItems(ctx context.Context, list []*ItemRequest) ([]*WithItems, error) {
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}

	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list answering items failed: %w", err)
	}

	byRequest := make(map[string][]*item.Item, len(list))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	out := make([]*WithItems, len(list))
	for i, r := range list {
		out[i] = &WithItems{ItemRequest: r, Items: byRequest[r.ID]}
	}
	return out, nil
}
