package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateBookingRequest struct {
	ItemID    string    `json:"item_id" binding:"required,uuid"`
	StartTime time.Time `json:"start" binding:"required"`
	EndTime   time.Time `json:"end" binding:"required"`
}

type DecideBookingQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

type ListBookingsQuery struct {
	request.ListParams
	State string `form:"state"`
}

type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookerTag struct {
	ID string `json:"id"`
}

type BookingResponse struct {
	ID        string    `json:"id"`
	Item      ItemTag   `json:"item"`
	Booker    BookerTag `json:"booker"`
	StartTime time.Time `json:"start"`
	EndTime   time.Time `json:"end"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    BookerTag{ID: b.BookerID},
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
