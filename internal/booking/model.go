package booking

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// Access violations render as 404 so that bookings stay hidden from users who are not part of them.
var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "booking not found")
	ErrBookerNotFound   = apperror.New(apperror.KindNotFound, "user not found")
	ErrItemNotFound     = apperror.New(apperror.KindNotFound, "item not found")
	ErrItemUnavailable  = apperror.New(apperror.KindInvalid, "item unavailable")
	ErrInvalidTimeRange = apperror.New(apperror.KindInvalid, "invalid time range")
	ErrAlreadyDecided   = apperror.New(apperror.KindInvalid, "already decided")
	ErrUnknownState     = apperror.New(apperror.KindInvalid, "unknown state")
	ErrTimeConflict     = apperror.New(apperror.KindConflict, "item already booked for this time")
	ErrOwnItem          = apperror.WithCode(apperror.KindForbidden, http.StatusNotFound, "owner cannot book own item")
	ErrNotItemOwner     = apperror.WithCode(apperror.KindForbidden, http.StatusNotFound, "only the item owner can approve or reject a booking")
	ErrNoAccess         = apperror.WithCode(apperror.KindForbidden, http.StatusNotFound, "only the item owner or the booker can view a booking")
)

// Status is the persisted lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Booking is one reservation of an item by a user for a time window.
type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is a caller-chosen classification used to filter booking lists.
// The time-based categories are orthogonal to Status.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryCurrent  Category = "CURRENT"
	CategoryFuture   Category = "FUTURE"
	CategoryPast     Category = "PAST"
	CategoryRejected Category = "REJECTED"
	CategoryWaiting  Category = "WAITING"
)

var categories = []Category{
	CategoryAll, CategoryCurrent, CategoryFuture, CategoryPast, CategoryRejected, CategoryWaiting,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps known names to their canonical form, ignoring case. Empty input means ALL.
// Unknown input comes back trimmed but otherwise verbatim, so rejecting it later reports what the caller sent.
func NormalizeCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryAll
	}
	if c := Category(strings.ToUpper(s)); c.Valid() {
		return c
	}
	return Category(s)
}

// ParseCategory is NormalizeCategory followed by rejection of unknown names.
func ParseCategory(s string) (Category, error) {
	c := NormalizeCategory(s)
	if !c.Valid() {
		return "", unknownState(string(c))
	}
	return c, nil
}

func unknownState(s string) error {
	return apperror.Wrap(ErrUnknownState, apperror.KindInvalid, "Unknown state: "+s)
}

// CreateRequest is a proposed booking, already parsed by the transport.
type CreateRequest struct {
	ItemID    string
	BookerID  string
	StartTime time.Time
	EndTime   time.Time
}

// Scope restricts a list query to one booker or to the items of one owner.
type Scope struct {
	BookerID string
	OwnerID  string
}

// Query is a fully resolved list request handed to the repository.
type Query struct {
	Scope     Scope
	Predicate Predicate
	Page      int
	PageSize  int
}
