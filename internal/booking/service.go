package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger/sl"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserFinder resolves booker ids. user.Service satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemFinder resolves item ids. item.Service satisfies it.
type ItemFinder interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// Observer is notified after a booking is persisted. Implementations must not block.
type Observer interface {
	BookingCreated(b *Booking)
	BookingDecided(b *Booking)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Decide(ctx context.Context, bookingID, requesterID string, approve bool) (*Booking, error)
	GetByID(ctx context.Context, bookingID, requesterID string) (*Booking, error)
	ListForUser(ctx context.Context, bookerID string, cat Category, page, pageSize int) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID string, cat Category, page, pageSize int) ([]*Booking, error)
}

type Options struct {
	// PreventOverlap rejects creation when an approved booking of the item intersects the window.
	PreventOverlap bool
}

type service struct {
	repo      Repository
	users     UserFinder
	items     ItemFinder
	validator *Validator
	clock     clock.Clock
	observer  Observer
	log       *slog.Logger
	opts      Options
}

func NewService(
	repo Repository,
	users UserFinder,
	items ItemFinder,
	clk clock.Clock,
	observer Observer,
	log *slog.Logger,
	opts Options,
) Service {
	if observer == nil {
		observer = nopObserver{}
	}
	return &service{
		repo:      repo,
		users:     users,
		items:     items,
		validator: NewValidator(clk),
		clock:     clk,
		observer:  observer,
		log:       log,
		opts:      opts,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	const op = "booking.service.Create"

	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil && !errors.Is(err, item.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validator.ValidateCreate(req, it, booker); err != nil {
		return nil, err
	}

	if s.opts.PreventOverlap {
		overlap, err := s.repo.HasOverlap(ctx, req.ItemID, req.StartTime, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if overlap {
			return nil, ErrTimeConflict
		}
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    req.BookerID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking created",
		slog.String("op", op),
		slog.String("booking_id", b.ID),
		slog.String("item_id", b.ItemID),
		slog.String("booker_id", b.BookerID),
	)
	s.observer.BookingCreated(b)
	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID, requesterID string, approve bool) (*Booking, error) {
	const op = "booking.service.Decide"

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanApprove(b, requesterID) {
		return nil, ErrNotItemOwner
	}

	next, err := Decide(b, approve)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TransitionStatus(ctx, next, b.Status); err != nil {
		if errors.Is(err, ErrAlreadyDecided) {
			s.log.Warn("booking decided concurrently", slog.String("op", op), slog.String("booking_id", b.ID))
			return nil, ErrAlreadyDecided
		}
		s.log.Error("failed to persist decision", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking decided",
		slog.String("op", op),
		slog.String("booking_id", next.ID),
		slog.String("status", string(next.Status)),
	)
	s.observer.BookingDecided(next)
	return next, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanView(b, requesterID) {
		return nil, ErrNoAccess
	}
	return b, nil
}

func (s *service) ListForUser(ctx context.Context, bookerID string, cat Category, page, pageSize int) ([]*Booking, error) {
	return s.list(ctx, bookerID, Scope{BookerID: bookerID}, cat, page, pageSize)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string, cat Category, page, pageSize int) ([]*Booking, error) {
	return s.list(ctx, ownerID, Scope{OwnerID: ownerID}, cat, page, pageSize)
}

func (s *service) list(ctx context.Context, requesterID string, scope Scope, cat Category, page, pageSize int) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrBookerNotFound
		}
		return nil, fmt.Errorf("booking.service.list: %w", err)
	}
	if !cat.Valid() {
		return nil, unknownState(string(cat))
	}

	bookings, err := s.repo.List(ctx, Query{
		Scope:     scope,
		Predicate: SelectPredicate(cat, s.clock.Now()),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("booking.service.list: %w", err)
	}
	return bookings, nil
}

type nopObserver struct{}

func (nopObserver) BookingCreated(*Booking) {}
func (nopObserver) BookingDecided(*Booking) {}
