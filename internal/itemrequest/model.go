package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "item request not found")
	ErrRequesterNotFound   = apperror.New(apperror.KindNotFound, "user not found")
	ErrDescriptionRequired = apperror.New(apperror.KindInvalid, "description is required")
)

// ItemRequest is a user's public ask for an item nobody has listed yet.
type ItemRequest struct {
	ID          string
	RequesterID string
	Description string
	CreatedAt   time.Time
}

// WithItems pairs a request with the items created in answer to it.
type WithItems struct {
	*ItemRequest
	Items []*item.Item
}

// Filter defines parameters for listing requests.
type Filter struct {
	RequesterID        string
	ExcludeRequesterID string
	Page               int
	PageSize           int
}
