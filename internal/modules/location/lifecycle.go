package location

import (
	"context"
	"errors"
	"strings"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/ecoexplorer/core/internal/modules/storage/images"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	"github.com/ecoexplorer/core/internal/pkg/filename"
	"go.uber.org/zap"
)

// maxNameAttempts bounds how often Create/Update redraw a taken blob name.
const maxNameAttempts = 3

// Notifier is told about every committed mutation.
type Notifier interface {
	Publish(ctx context.Context, id string) error
}

// Lifecycle sequences record and image writes across the two stores.
// There is no transaction spanning both; every store call receives the
// caller's context, so a dropped request cancels the remaining steps.
// Concurrent edits of one record are last-write-wins.
type Lifecycle struct {
	records    records.Store
	images     images.Store
	names      *filename.Generator
	journal    Journal
	projection *Projection
	notifier   Notifier
	checkImage bool
	logger     *zap.Logger
}

type Option func(*Lifecycle)

func WithJournal(j Journal) Option           { return func(l *Lifecycle) { l.journal = j } }
func WithProjection(p *Projection) Option    { return func(l *Lifecycle) { l.projection = p } }
func WithNotifier(n Notifier) Option         { return func(l *Lifecycle) { l.notifier = n } }
func WithNames(g *filename.Generator) Option { return func(l *Lifecycle) { l.names = g } }

// WithImageCheck toggles decoding uploads before they are stored.
func WithImageCheck(on bool) Option { return func(l *Lifecycle) { l.checkImage = on } }

func NewLifecycle(recs records.Store, imgs images.Store, logger *zap.Logger, opts ...Option) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lifecycle{
		records:    recs,
		images:     imgs,
		names:      filename.Default(),
		checkImage: true,
		logger:     logger.Named("LocationLifecycle"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Create uploads the image first, then writes the record pointing at it.
// A failed record write leaves the uploaded blob behind; with a journal
// configured the reconciler removes it later.
func (l *Lifecycle) Create(ctx context.Context, f Fields, file *Upload) (models.Location, error) {
	const op = "create"

	loc := f.location()
	if loc.LocationName == "" {
		return models.Location{}, validationError(op, "locationName is required")
	}
	if err := l.validateUpload(op, file); err != nil {
		return models.Location{}, err
	}

	ref := l.freshName(ctx, file.Filename)
	entryID := l.begin(ctx, op, ref)

	if _, err := l.images.Put(ctx, ref, file.Data, images.DetectContentType(ref, file.Data, file.ContentType)); err != nil {
		return models.Location{}, opError(ErrUpload, op, err)
	}

	loc.CustomFilename = ref
	created, err := l.records.Create(ctx, loc)
	if err != nil {
		l.logger.Warn("record write failed after upload; blob left for reconciliation",
			zap.String("blob", ref), zap.Error(err))
		return models.Location{}, opError(ErrRecordWrite, op, err)
	}

	l.commit(ctx, entryID)
	l.applied(ctx, created)
	return created, nil
}

// Update patches the record. With a new image the order is: upload new
// blob, write record, delete old blob. Only the last step may fail
// without failing the update.
func (l *Lifecycle) Update(ctx context.Context, id string, f Fields, file *Upload) (models.Location, error) {
	const op = "update"

	if strings.TrimSpace(id) == "" {
		return models.Location{}, validationError(op, "Missing document ID")
	}
	patch := f.patch()
	if patch.LocationName != nil && *patch.LocationName == "" {
		return models.Location{}, validationError(op, "locationName cannot be empty")
	}
	if file == nil {
		return l.Patch(ctx, id, patch)
	}
	if err := l.validateUpload(op, file); err != nil {
		return models.Location{}, err
	}

	current, err := l.records.Get(ctx, id)
	if err != nil {
		return models.Location{}, opError(ErrRecordWrite, op, err)
	}

	ref := l.freshName(ctx, file.Filename)
	entryID := l.begin(ctx, op, ref)

	if _, err := l.images.Put(ctx, ref, file.Data, images.DetectContentType(ref, file.Data, file.ContentType)); err != nil {
		return models.Location{}, opError(ErrUpload, op, err)
	}

	patch.CustomFilename = &ref
	if err := l.records.Update(ctx, id, patch); err != nil {
		// The record still points at the old blob; drop the new one.
		if cleanupErr := l.images.Delete(context.WithoutCancel(ctx), ref); cleanupErr != nil {
			l.cleanupFailed(ctx, &CleanupError{Op: op, Blob: ref, Err: cleanupErr}, false)
		} else {
			l.commit(ctx, entryID)
		}
		return models.Location{}, opError(ErrRecordWrite, op, err)
	}
	l.commit(ctx, entryID)

	updated := patch.Apply(current)
	if current.HasImage() && current.CustomFilename != ref {
		if err := l.images.Delete(ctx, current.CustomFilename); err != nil {
			l.cleanupFailed(ctx, &CleanupError{Op: op, Blob: current.CustomFilename, Err: err}, true)
		}
	}

	l.applied(ctx, updated)
	return updated, nil
}

// Patch writes scalar fields only; the image store is never touched.
func (l *Lifecycle) Patch(ctx context.Context, id string, patch models.Patch) (models.Location, error) {
	const op = "update"

	if strings.TrimSpace(id) == "" {
		return models.Location{}, validationError(op, "Missing document ID")
	}
	if patch.CustomFilename != nil && *patch.CustomFilename != "" && !images.ValidName(*patch.CustomFilename) {
		return models.Location{}, validationError(op, "invalid customFilename")
	}

	current, err := l.records.Get(ctx, id)
	if err != nil {
		return models.Location{}, opError(ErrRecordWrite, op, err)
	}
	if err := l.records.Update(ctx, id, patch); err != nil {
		return models.Location{}, opError(ErrRecordWrite, op, err)
	}

	updated := patch.Apply(current)
	l.applied(ctx, updated)
	return updated, nil
}

// Delete removes the record and the blob independently. An empty id or
// imageRef skips that side; an absent blob counts as deleted.
func (l *Lifecycle) Delete(ctx context.Context, id, imageRef string) error {
	const op = "delete"

	id = strings.TrimSpace(id)
	imageRef = strings.TrimSpace(imageRef)
	if id == "" && imageRef == "" {
		return validationError(op, "missing id and customFilename")
	}

	var errs []error
	recordGone := false
	if id != "" {
		if err := l.records.Delete(ctx, id); err != nil {
			errs = append(errs, err)
		} else {
			recordGone = true
		}
	}
	if imageRef != "" {
		if err := l.images.Delete(ctx, imageRef); err != nil {
			errs = append(errs, err)
			if recordGone && !errors.Is(err, images.ErrInvalidName) {
				l.cleanupFailed(ctx, &CleanupError{Op: op, Blob: imageRef, Err: err}, true)
			}
		}
	}

	if recordGone {
		if l.projection != nil {
			l.projection.Remove(id)
		}
		l.notify(ctx, id)
	}
	if len(errs) > 0 {
		return opError(ErrDelete, op, errors.Join(errs...))
	}
	return nil
}

// DeleteByID deletes a record along with the image it references.
func (l *Lifecycle) DeleteByID(ctx context.Context, id string) error {
	current, err := l.records.Get(ctx, id)
	if err != nil {
		return opError(ErrDelete, "delete", err)
	}
	return l.Delete(ctx, current.ID, current.CustomFilename)
}

// PutImage stores a blob under a caller-chosen name without touching records.
func (l *Lifecycle) PutImage(ctx context.Context, name string, file *Upload) (string, error) {
	const op = "upload"

	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError(op, "Missing file or filename")
	}
	if !images.ValidName(name) {
		return "", validationError(op, "invalid filename")
	}
	if err := l.validateUpload(op, file); err != nil {
		return "", err
	}
	url, err := l.images.Put(ctx, name, file.Data, images.DetectContentType(name, file.Data, file.ContentType))
	if err != nil {
		return "", opError(ErrUpload, op, err)
	}
	return url, nil
}

func (l *Lifecycle) validateUpload(op string, file *Upload) error {
	if file == nil || len(file.Data) == 0 {
		return validationError(op, "Missing file or filename")
	}
	if l.checkImage {
		if _, err := images.Inspect(file.Data); err != nil {
			return opError(ErrValidation, op, err)
		}
	}
	return nil
}

// freshName draws a new blob name, redrawing while the store already holds it.
func (l *Lifecycle) freshName(ctx context.Context, original string) string {
	ref := l.names.Generate(original)
	for attempt := 1; attempt < maxNameAttempts; attempt++ {
		taken, err := l.images.Exists(ctx, ref)
		if err != nil {
			l.logger.Debug("name existence check failed", zap.String("blob", ref), zap.Error(err))
			return ref
		}
		if !taken {
			return ref
		}
		l.logger.Info("generated image name already taken, redrawing", zap.String("blob", ref))
		ref = l.names.Generate(original)
	}
	return ref
}

func (l *Lifecycle) begin(ctx context.Context, op string, blobs ...string) string {
	if l.journal == nil {
		return ""
	}
	id, err := l.journal.Begin(ctx, Entry{Op: op, Blobs: blobs})
	if err != nil {
		l.logger.Warn("journal begin failed", zap.String("op", op), zap.Error(err))
		return ""
	}
	return id
}

func (l *Lifecycle) commit(ctx context.Context, entryID string) {
	if l.journal == nil || entryID == "" {
		return
	}
	if err := l.journal.Commit(context.WithoutCancel(ctx), entryID); err != nil {
		l.logger.Warn("journal commit failed", zap.String("entry", entryID), zap.Error(err))
	}
}

// cleanupFailed logs a best-effort failure and, when record is set, journals
// the blob so the reconciler retries it.
func (l *Lifecycle) cleanupFailed(ctx context.Context, cerr *CleanupError, record bool) {
	l.logger.Warn("best-effort cleanup failed", zap.String("op", cerr.Op), zap.String("blob", cerr.Blob), zap.Error(cerr.Err))
	if record {
		l.begin(context.WithoutCancel(ctx), "cleanup", cerr.Blob)
	}
}

func (l *Lifecycle) applied(ctx context.Context, loc models.Location) {
	if l.projection != nil {
		l.projection.ApplyPatch(loc)
	}
	l.notify(ctx, loc.ID)
}

func (l *Lifecycle) notify(ctx context.Context, id string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.Publish(context.WithoutCancel(ctx), id); err != nil {
		l.logger.Warn("change notification failed", zap.String("id", id), zap.Error(err))
	}
}
