package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	Available   *bool   `json:"available"`
}

type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type PhotoURIRequest struct {
	ID      string `uri:"id" binding:"required,uuid"`
	PhotoID string `uri:"photoId" binding:"required,uuid"`
}

// ItemTag is the compact form embedded in other resources.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingBriefResponse struct {
	ID        string    `json:"id"`
	BookerID  string    `json:"booker_id"`
	StartTime time.Time `json:"start"`
	EndTime   time.Time `json:"end"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	RequestID   *string `json:"request_id,omitempty"`

	LastBooking *BookingBriefResponse `json:"last_booking"`
	NextBooking *BookingBriefResponse `json:"next_booking"`
	Comments    []CommentResponse     `json:"comments"`
}

type PhotoResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []CommentResponse{},
	}
}

func NewDetailsResponse(d *item.Details) ItemResponse {
	resp := NewItemResponse(d.Item)
	resp.LastBooking = newBookingBrief(d.LastBooking)
	resp.NextBooking = newBookingBrief(d.NextBooking)
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(c))
	}
	return resp
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	}
}

func NewPhotoResponse(p *item.Photo) PhotoResponse {
	base := "/v1/items/" + p.ItemID + "/photos/" + p.ID
	resp := PhotoResponse{
		ID:          p.ID,
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Size:        p.Size,
		URL:         base,
		CreatedAt:   p.CreatedAt,
	}
	if p.ThumbnailKey != nil {
		thumb := base + "/thumbnail"
		resp.ThumbnailURL = &thumb
	}
	return resp
}

func newBookingBrief(b *item.BookingBrief) *BookingBriefResponse {
	if b == nil {
		return nil
	}
	return &BookingBriefResponse{
		ID:        b.ID,
		BookerID:  b.BookerID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
