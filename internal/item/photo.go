package item

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger/sl"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

const maxPhotoSize = 10 << 20

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type PhotoService interface {
	Upload(ctx context.Context, itemID, requesterID string, header *multipart.FileHeader) (*Photo, error)
	Open(ctx context.Context, itemID, photoID string) (io.ReadCloser, *Photo, error)
	OpenThumbnail(ctx context.Context, itemID, photoID string) (io.ReadCloser, *Photo, error)
}

type photoService struct {
	repo    Repository
	store   storage.Storage
	imgProc *storage.ImageProcessor
	clock   clock.Clock
	log     *slog.Logger
}

func NewPhotoService(repo Repository, store storage.Storage, clk clock.Clock, log *slog.Logger) PhotoService {
	return &photoService{
		repo:    repo,
		store:   store,
		imgProc: storage.NewImageProcessor(200, 200),
		clock:   clk,
		log:     log,
	}
}

func (s *photoService) Upload(ctx context.Context, itemID, requesterID string, header *multipart.FileHeader) (*Photo, error) {
	const op = "item.photo.Upload"

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != requesterID {
		return nil, ErrNotOwner
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedPhotoTypes[contentType]
	if !ok || header.Size > maxPhotoSize {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// The content is read once and reused for the original and the thumbnail.
	content, err := io.ReadAll(io.LimitReader(src, maxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(content) > maxPhotoSize {
		return nil, ErrNotAnImage
	}

	thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content))
	if err != nil {
		return nil, ErrNotAnImage
	}

	id := uuid.NewString()
	shard := id[:2]
	key := fmt.Sprintf("items/%s/%s/%s%s", itemID, shard, id, ext)
	thumbKey := fmt.Sprintf("items/%s/%s/%s_thumb.jpg", itemID, shard, id)

	if err := s.store.Save(ctx, key, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	var thumbnailKey *string
	if err := s.store.Save(ctx, thumbKey, thumb); err != nil {
		// The photo is still usable without a thumbnail.
		s.log.Warn("thumbnail not stored", slog.String("op", op), slog.String("photo_id", id), sl.Err(err))
	} else {
		thumbnailKey = &thumbKey
	}

	p := &Photo{
		ID:           id,
		ItemID:       itemID,
		Filename:     sanitizeFilename(header.Filename),
		ContentType:  contentType,
		Size:         int64(len(content)),
		StorageKey:   key,
		ThumbnailKey: thumbnailKey,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.CreatePhoto(ctx, p); err != nil {
		_ = s.store.Delete(ctx, key)
		if thumbnailKey != nil {
			_ = s.store.Delete(ctx, *thumbnailKey)
		}
		return nil, err
	}
	return p, nil
}

func (s *photoService) Open(ctx context.Context, itemID, photoID string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetPhoto(ctx, itemID, photoID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.open(ctx, p.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, p, nil
}

func (s *photoService) OpenThumbnail(ctx context.Context, itemID, photoID string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetPhoto(ctx, itemID, photoID)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailKey == nil {
		return nil, nil, ErrNoThumbnail
	}
	rc, err := s.open(ctx, *p.ThumbnailKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, p, nil
}

func (s *photoService) open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return rc, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "photo"
	}
	return name
}
