package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

// SearchCache drops cached search responses. *cache.Cache from go-cache satisfies it.
type SearchCache interface {
	Flush()
}

type Handler struct {
	service     item.Service
	photos      item.PhotoService
	searchCache SearchCache
}

// NewHandler builds the item handler. searchCache may be nil when search responses are not cached.
func NewHandler(service item.Service, photos item.PhotoService, searchCache SearchCache) *Handler {
	return &Handler{
		service:     service,
		photos:      photos,
		searchCache: searchCache,
	}
}

// invalidateSearch runs after any write that can change which items search returns.
func (h *Handler) invalidateSearch() {
	if h.searchCache != nil {
		h.searchCache.Flush()
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateSearch()

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	d, err := h.service.GetDetails(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDetailsResponse(d))
}

func (h *Handler) ListMine(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	params.Normalize()

	list, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.Map(list, NewDetailsResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize))
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	list, err := h.service.Search(c.Request.Context(), req.Text, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.Map(list, NewItemResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Update(c.Request.Context(), uri.ID, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateSearch()

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) AddComment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), item.CommentRequest{
		ItemID:   uri.ID,
		AuthorID: auth.GetUserID(c),
		Text:     body.Text,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommentResponse(comment))
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo file is required", err)
		return
	}

	p, err := h.photos.Upload(c.Request.Context(), uri.ID, auth.GetUserID(c), header)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

func (h *Handler) ServePhoto(c *gin.Context) {
	var uri PhotoURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid photo id", err)
		return
	}

	stream, p, err := h.photos.Open(c.Request.Context(), uri.ID, uri.PhotoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	serve(c, stream, p.ContentType, p.Filename)
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri PhotoURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid photo id", err)
		return
	}

	stream, p, err := h.photos.OpenThumbnail(c.Request.Context(), uri.ID, uri.PhotoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	serve(c, stream, storage.ThumbnailContentType, p.Filename+"_thumb.jpg")
}

func serve(c *gin.Context, stream io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Status(http.StatusOK)
	// The status line is already written; a copy failure can only truncate the body.
	_, _ = io.Copy(c.Writer, stream)
}
