package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ecoexplorer/core/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreLocation struct {
	LocationName   string    `firestore:"locationName"`
	Description    string    `firestore:"description"`
	Tags           string    `firestore:"tags"`
	Credit         string    `firestore:"credit"`
	District       string    `firestore:"district"`
	CustomFilename string    `firestore:"customFilename"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

func (d firestoreLocation) toModel(id string) models.Location {
	loc := models.Location{
		ID:             id,
		LocationName:   d.LocationName,
		Description:    d.Description,
		Tags:           d.Tags,
		Credit:         d.Credit,
		District:       d.District,
		CustomFilename: d.CustomFilename,
	}
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt
		loc.CreatedAt = &created
	}
	return loc
}

// FirestoreStore keeps records in a Firestore collection; createdAt is the server timestamp.
type FirestoreStore struct {
	col *firestore.CollectionRef
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{col: client.Collection(collection)}
}

func (s *FirestoreStore) doc(id string) *firestore.DocumentRef {
	if id == "" || strings.Contains(id, "/") {
		return nil
	}
	return s.col.Doc(id)
}

func (s *FirestoreStore) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	data := map[string]interface{}{
		models.FieldLocationName:   loc.LocationName,
		models.FieldDescription:    loc.Description,
		models.FieldTags:           loc.Tags,
		models.FieldCredit:         loc.Credit,
		models.FieldCustomFilename: loc.CustomFilename,
		models.FieldCreatedAt:      firestore.ServerTimestamp,
	}
	if loc.District != "" {
		data[models.FieldDistrict] = loc.District
	}
	ref, wr, err := s.col.Add(ctx, data)
	if err != nil {
		return models.Location{}, fmt.Errorf("add location: %w", err)
	}
	loc.ID = ref.ID
	created := wr.UpdateTime
	loc.CreatedAt = &created
	return loc, nil
}

func (s *FirestoreStore) ReadAll(ctx context.Context) ([]models.Location, error) {
	snaps, err := s.col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	out := make([]models.Location, 0, len(snaps))
	for _, snap := range snaps {
		var d firestoreLocation
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode location %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toModel(snap.Ref.ID))
	}
	return out, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (models.Location, error) {
	ref := s.doc(id)
	if ref == nil {
		return models.Location{}, ErrNotFound
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Location{}, ErrNotFound
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("get location: %w", err)
	}
	var d firestoreLocation
	if err := snap.DataTo(&d); err != nil {
		return models.Location{}, fmt.Errorf("decode location %s: %w", id, err)
	}
	return d.toModel(snap.Ref.ID), nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, patch models.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	ref := s.doc(id)
	if ref == nil {
		return ErrNotFound
	}
	fields := patch.Fields()
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := ref.Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	ref := s.doc(id)
	if ref == nil {
		return nil
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
