package item

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type storedBooking struct {
	BookingBrief
	Status string
}

type memRepo struct {
	items    map[string]*Item
	order    []string
	bookings []storedBooking
	comments []*Comment
	photos   map[string]*Photo
	failOn   string
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*Item{}, photos: map[string]*Photo{}}
}

func (r *memRepo) Create(_ context.Context, it *Item) error {
	it.ID = uuid.NewString()
	cp := *it
	r.items[it.ID] = &cp
	r.order = append(r.order, it.ID)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Item, error) {
	requests := map[string]bool{}
	for _, id := range f.RequestIDs {
		requests[id] = true
	}
	var out []*Item
	for _, id := range r.order {
		it := r.items[id]
		if f.OwnerID != "" && it.OwnerID != f.OwnerID {
			continue
		}
		if f.AvailableOnly && !it.Available {
			continue
		}
		if f.Text != "" {
			text := strings.ToLower(f.Text)
			if !strings.Contains(strings.ToLower(it.Name), text) && !strings.Contains(strings.ToLower(it.Description), text) {
				continue
			}
		}
		if len(f.RequestIDs) > 0 && (it.RequestID == nil || !requests[*it.RequestID]) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, it *Item) error {
	if _, ok := r.items[it.ID]; !ok {
		return ErrNotFound
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *memRepo) approved(itemIDs []string) []storedBooking {
	want := map[string]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	var out []storedBooking
	for _, b := range r.bookings {
		if want[b.ItemID] && b.Status == statusApproved {
			out = append(out, b)
		}
	}
	return out
}

func (r *memRepo) LastBookings(_ context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error) {
	list := r.approved(itemIDs)
	sort.Slice(list, func(i, j int) bool { return list[i].EndTime.After(list[j].EndTime) })
	out := map[string]*BookingBrief{}
	for _, b := range list {
		if _, seen := out[b.ItemID]; !seen && b.StartTime.Before(now) {
			brief := b.BookingBrief
			out[b.ItemID] = &brief
		}
	}
	return out, nil
}

func (r *memRepo) NextBookings(_ context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error) {
	list := r.approved(itemIDs)
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	out := map[string]*BookingBrief{}
	for _, b := range list {
		if _, seen := out[b.ItemID]; !seen && b.StartTime.After(now) {
			brief := b.BookingBrief
			out[b.ItemID] = &brief
		}
	}
	return out, nil
}

func (r *memRepo) HasFinishedBooking(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	for _, b := range r.approved([]string{itemID}) {
		if b.BookerID == bookerID && b.EndTime.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) CreateComment(_ context.Context, c *Comment) error {
	c.ID = uuid.NewString()
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *memRepo) Comments(_ context.Context, itemIDs []string) (map[string][]*Comment, error) {
	want := map[string]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	out := map[string][]*Comment{}
	for _, c := range r.comments {
		if want[c.ItemID] {
			out[c.ItemID] = append(out[c.ItemID], c)
		}
	}
	return out, nil
}

func (r *memRepo) CreatePhoto(_ context.Context, p *Photo) error {
	if r.failOn == "photo" {
		return context.DeadlineExceeded
	}
	cp := *p
	r.photos[p.ID] = &cp
	return nil
}

func (r *memRepo) GetPhoto(_ context.Context, itemID, photoID string) (*Photo, error) {
	p, ok := r.photos[photoID]
	if !ok || p.ItemID != itemID {
		return nil, ErrPhotoNotFound
	}
	cp := *p
	return &cp, nil
}

type memUsers map[string]*user.User

func (m memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type memRequests map[string]bool

func (m memRequests) Exists(_ context.Context, id string) (bool, error) {
	return m[id], nil
}
