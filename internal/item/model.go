package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(apperror.KindNotFound, "item not found")
	ErrOwnerNotFound     = apperror.New(apperror.KindNotFound, "owner not found")
	ErrEmptyName         = apperror.New(apperror.KindInvalid, "name cannot be empty")
	ErrEmptyDescription  = apperror.New(apperror.KindInvalid, "description cannot be empty")
	ErrEmptyComment      = apperror.New(apperror.KindInvalid, "comment text cannot be empty")
	ErrNotBookedByAuthor = apperror.New(apperror.KindInvalid, "only users who finished an approved booking of the item can comment")
	ErrPhotoNotFound     = apperror.New(apperror.KindNotFound, "photo not found")
	ErrNotOwner          = apperror.New(apperror.KindForbidden, "only the owner can manage item photos")
	ErrNotAnImage        = apperror.New(apperror.KindInvalid, "uploaded file is not a supported image")
	ErrNoThumbnail       = apperror.New(apperror.KindNotFound, "thumbnail not available for this photo")
)

// Item is a thing a user lists for others to book.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string // item request this item answers, if any
	CreatedAt   time.Time
}

// BookingBrief is the summary of an approved booking shown to the item owner.
type BookingBrief struct {
	ID        string
	ItemID    string
	BookerID  string
	StartTime time.Time
	EndTime   time.Time
}

type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// Details is an item together with the data computed around it.
// LastBooking and NextBooking are only filled for the owner.
type Details struct {
	Item        *Item
	LastBooking *BookingBrief
	NextBooking *BookingBrief
	Comments    []*Comment
}

type Photo struct {
	ID           string
	ItemID       string
	Filename     string
	ContentType  string
	Size         int64
	StorageKey   string
	ThumbnailKey *string
	CreatedAt    time.Time
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       string
	Text          string // case-insensitive match on name or description
	AvailableOnly bool
	RequestIDs    []string
	Page          int
	PageSize      int
}
