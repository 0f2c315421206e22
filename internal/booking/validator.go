package booking

import (
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Validator checks booking creation requests against the resolved item and booker.
type Validator struct {
	clock clock.Clock
}

func NewValidator(clk clock.Clock) *Validator {
	return &Validator{clock: clk}
}

// ValidateCreate applies the creation rules in order and returns the first violation.
// A nil booker or item means the referenced record does not exist.
func (v *Validator) ValidateCreate(req CreateRequest, it *item.Item, booker *user.User) error {
	if booker == nil {
		return ErrBookerNotFound
	}
	if it == nil {
		return ErrItemNotFound
	}
	if !it.Available {
		return ErrItemUnavailable
	}
	if it.OwnerID == req.BookerID {
		return ErrOwnItem
	}

	now := v.clock.Now()
	if !req.StartTime.After(now) || !req.StartTime.Before(req.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
