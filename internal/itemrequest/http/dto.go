package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}

type AnswerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     string `json:"owner_id"`
}

type RequestResponse struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	RequesterID string           `json:"requester_id"`
	CreatedAt   time.Time        `json:"created"`
	Items       []AnswerResponse `json:"items"`
}

func NewResponse(r *itemrequest.ItemRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		CreatedAt:   r.CreatedAt,
		Items:       []AnswerResponse{},
	}
}

func NewResponseWithItems(r *itemrequest.WithItems) RequestResponse {
	resp := NewResponse(r.ItemRequest)
	for _, it := range r.Items {
		resp.Items = append(resp.Items, newAnswerResponse(it))
	}
	return resp
}

func newAnswerResponse(it *item.Item) AnswerResponse {
	return AnswerResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
	}
}
