package item

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger/sl"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader round-trips content through a multipart form, the way gin hands uploads to handlers.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["photo"][0]
}

func newPhotoFixture(t *testing.T) (*fixture, PhotoService, *Item) {
	f := newFixture(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	photos := NewPhotoService(f.repo, store, f.clock, sl.Discard())
	return f, photos, f.createItem(t, "Camera", true)
}

func TestPhotoUploadAndServe(t *testing.T) {
	f, photos, it := newPhotoFixture(t)
	ctx := context.Background()
	content := pngBytes(t, 400, 100)

	p, err := photos.Upload(ctx, it.ID, f.owner.ID, fileHeader(t, "holiday.png", "image/png", content))
	require.NoError(t, err)
	assert.Equal(t, "holiday.png", p.Filename)
	assert.Equal(t, int64(len(content)), p.Size)
	require.NotNil(t, p.ThumbnailKey)

	rc, got, err := photos.Open(ctx, it.ID, p.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "image/png", got.ContentType)

	rc, _, err = photos.OpenThumbnail(ctx, it.ID, p.ID)
	require.NoError(t, err)
	defer rc.Close()
	thumb, err := jpeg.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 200, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}

func TestPhotoUploadRejections(t *testing.T) {
	f, photos, it := newPhotoFixture(t)
	ctx := context.Background()
	content := pngBytes(t, 10, 10)

	_, err := photos.Upload(ctx, it.ID, f.booker.ID, fileHeader(t, "a.png", "image/png", content))
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = photos.Upload(ctx, it.ID, f.owner.ID, fileHeader(t, "a.gif", "image/gif", content))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = photos.Upload(ctx, it.ID, f.owner.ID, fileHeader(t, "a.png", "image/png", []byte("not an image")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = photos.Upload(ctx, "missing", f.owner.ID, fileHeader(t, "a.png", "image/png", content))
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = photos.Open(ctx, it.ID, "missing")
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestPhotoUpload_MetadataFailureCleansStorage(t *testing.T) {
	f, photos, it := newPhotoFixture(t)
	f.repo.failOn = "photo"

	_, err := photos.Upload(context.Background(), it.ID, f.owner.ID, fileHeader(t, "a.png", "image/png", pngBytes(t, 10, 10)))
	require.Error(t, err)
	assert.Empty(t, f.repo.photos)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":           "photo.jpg",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\pic.png`: "pic.png",
		"":                    "photo",
		"/":                   "photo",
		"bad\x00name.png":     "badname.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}
}
