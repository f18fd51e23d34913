package location

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/ecoexplorer/core/internal/modules/storage/images"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	"github.com/ecoexplorer/core/internal/pkg/filename"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func jpegUpload(t *testing.T, name string) *Upload {
	return &Upload{Filename: name, ContentType: "image/jpeg", Data: jpegBytes(t)}
}

// sequenceNames yields image_20240705_090301_<n>.<ext> with n = 1, 2, 3...
func sequenceNames() *filename.Generator {
	n := 0
	return &filename.Generator{
		Now: func() time.Time { return time.Date(2024, 7, 5, 9, 3, 1, 0, time.Local) },
		IntN: func(int) int {
			n++
			return n
		},
	}
}

type flakyImages struct {
	*images.MemoryStore
	putErr    error
	deleteErr error
	existsErr error
	puts      []string
	deletes   []string
}

func newFlakyImages() *flakyImages {
	return &flakyImages{MemoryStore: images.NewMemoryStore("")}
}

func (f *flakyImages) Put(ctx context.Context, name string, data []byte, ct string) (string, error) {
	f.puts = append(f.puts, name)
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.MemoryStore.Put(ctx, name, data, ct)
}

func (f *flakyImages) Delete(ctx context.Context, name string) error {
	f.deletes = append(f.deletes, name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, name)
}

func (f *flakyImages) Exists(ctx context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryStore.Exists(ctx, name)
}

func (f *flakyImages) has(t *testing.T, name string) bool {
	t.Helper()
	ok, err := f.MemoryStore.Exists(context.Background(), name)
	require.NoError(t, err)
	return ok
}

type flakyRecords struct {
	*records.MemoryStore
	createErr error
	updateErr error
	deleteErr error
	creates   int
}

func newFlakyRecords() *flakyRecords {
	return &flakyRecords{MemoryStore: records.NewMemoryStore()}
}

func (f *flakyRecords) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	f.creates++
	if f.createErr != nil {
		return models.Location{}, f.createErr
	}
	return f.MemoryStore.Create(ctx, loc)
}

func (f *flakyRecords) Update(ctx context.Context, id string, p models.Patch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.MemoryStore.Update(ctx, id, p)
}

func (f *flakyRecords) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, id)
}

func (f *flakyRecords) all(t *testing.T) []models.Location {
	t.Helper()
	out, err := f.MemoryStore.ReadAll(context.Background())
	require.NoError(t, err)
	return out
}

// memJournal is an in-process Journal for lifecycle tests.
type memJournal struct {
	entries map[string]Entry
	seq     int
}

func newMemJournal() *memJournal { return &memJournal{entries: map[string]Entry{}} }

func (j *memJournal) Begin(_ context.Context, e Entry) (string, error) {
	j.seq++
	e.ID = string(rune('a' + j.seq))
	e.CreatedAt = time.Now()
	j.entries[e.ID] = e
	return e.ID, nil
}

func (j *memJournal) Commit(_ context.Context, id string) error {
	delete(j.entries, id)
	return nil
}

func (j *memJournal) Pending(_ context.Context, _ time.Duration) ([]Entry, error) {
	out := make([]Entry, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e)
	}
	return out, nil
}

func (j *memJournal) blobs() []string {
	var out []string
	for _, e := range j.entries {
		out = append(out, e.Blobs...)
	}
	return out
}
