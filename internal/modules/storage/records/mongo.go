package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecoexplorer/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoLocation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	LocationName   string             `bson:"locationName"`
	Description    string             `bson:"description"`
	Tags           string             `bson:"tags"`
	Credit         string             `bson:"credit"`
	District       string             `bson:"district,omitempty"`
	CustomFilename string             `bson:"customFilename"`
	CreatedAt      *time.Time         `bson:"createdAt,omitempty"`
}

func (d mongoLocation) toModel() models.Location {
	return models.Location{
		ID:             d.ID.Hex(),
		LocationName:   d.LocationName,
		Description:    d.Description,
		Tags:           d.Tags,
		Credit:         d.Credit,
		District:       d.District,
		CustomFilename: d.CustomFilename,
		CreatedAt:      d.CreatedAt,
	}
}

// MongoStore keeps records in a MongoDB collection keyed by ObjectID.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col, now: time.Now}
}

func (s *MongoStore) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	// BSON dates carry millisecond precision.
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := mongoLocation{
		LocationName:   loc.LocationName,
		Description:    loc.Description,
		Tags:           loc.Tags,
		Credit:         loc.Credit,
		District:       loc.District,
		CustomFilename: loc.CustomFilename,
		CreatedAt:      &now,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return models.Location{}, fmt.Errorf("insert location: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Location{}, fmt.Errorf("insert location: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toModel(), nil
}

func (s *MongoStore) ReadAll(ctx context.Context) ([]models.Location, error) {
	cursor, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find locations: %w", err)
	}
	var docs []mongoLocation
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	out := make([]models.Location, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Location, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Location{}, ErrNotFound
	}
	var doc mongoLocation
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Location{}, ErrNotFound
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("find location: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch models.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(patch.Fields())})
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
