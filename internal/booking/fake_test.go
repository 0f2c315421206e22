package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// memRepo keeps bookings in memory and resolves item ownership from items, like the SQL join.
type memRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	items    *memItems
	now      func() time.Time
}

func newMemRepo(items *memItems, now func() time.Time) *memRepo {
	return &memRepo{bookings: map[string]*Booking{}, items: items, now: now}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uuid.NewString()
	b.CreatedAt = r.now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.joined(b), nil
}

func (r *memRepo) joined(b *Booking) *Booking {
	cp := *b
	if it, ok := r.items.byID[b.ItemID]; ok {
		cp.ItemName = it.Name
		cp.ItemOwnerID = it.OwnerID
	}
	return &cp
}

func (r *memRepo) List(_ context.Context, q Query) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, stored := range r.bookings {
		b := r.joined(stored)
		if q.Scope.BookerID != "" && b.BookerID != q.Scope.BookerID {
			continue
		}
		if q.Scope.OwnerID != "" && b.ItemOwnerID != q.Scope.OwnerID {
			continue
		}
		if q.Predicate.Match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartTime.After(out[j].StartTime)
	})

	if q.PageSize > 0 {
		from := (max(q.Page, 1) - 1) * q.PageSize
		if from >= len(out) {
			return []*Booking{}, nil
		}
		out = out[from:min(from+q.PageSize, len(out))]
	}
	return out, nil
}

func (r *memRepo) TransitionStatus(_ context.Context, b *Booking, from Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok || stored.Status != from {
		return ErrAlreadyDecided
	}
	stored.Status = b.Status
	stored.UpdatedAt = r.now()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memRepo) HasOverlap(_ context.Context, itemID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.Status == StatusApproved && b.StartTime.Before(end) && b.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

type memItems struct {
	byID map[string]*item.Item
}

func (m *memItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

type memUsers struct {
	byID map[string]*user.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type countingObserver struct {
	created []*Booking
	decided []*Booking
}

func (o *countingObserver) BookingCreated(b *Booking) { o.created = append(o.created, b) }
func (o *countingObserver) BookingDecided(b *Booking) { o.decided = append(o.decided, b) }
