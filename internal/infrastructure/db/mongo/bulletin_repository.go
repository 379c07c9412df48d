package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

const collectionBulletins = "bulletins"

type BulletinRepository struct {
	col *mongo.Collection
}

func NewBulletinRepository(db *mongo.Database) *BulletinRepository {
	return &BulletinRepository{col: db.Collection(collectionBulletins)}
}

// Create inserts a new bulletin document.
func (r *BulletinRepository) Create(ctx context.Context, b *domain.Bulletin) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return mapError(err)
	}
	return nil
}

// Update replaces the stored document for b.ID.
func (r *BulletinRepository) Update(ctx context.Context, b *domain.Bulletin) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBulletinNotFound
	}
	return nil
}

// SoftDelete flips is_active to false; documents are never removed.
func (r *BulletinRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBulletinNotFound
	}
	return nil
}

// FindByID retrieves a bulletin regardless of its active flag.
func (r *BulletinRepository) FindByID(ctx context.Context, id string) (*domain.Bulletin, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Bulletin
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBulletinNotFound
		}
		return nil, mapError(err)
	}
	b.Normalize()
	return &b, nil
}

// ListActive returns all active bulletins, newest first. Legacy-variant
// documents are normalized on the way out.
func (r *BulletinRepository) ListActive(ctx context.Context) ([]*domain.Bulletin, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var out []*domain.Bulletin
	for cur.Next(ctx) {
		var b domain.Bulletin
		if err := cur.Decode(&b); err != nil {
			return nil, mapError(err)
		}
		b.Normalize()
		out = append(out, &b)
	}
	if err := cur.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// EnsureIndexes creates the indexes the default query shape relies on.
func (r *BulletinRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "date_posted", Value: -1}}},
		{Keys: bson.D{{Key: "posted_by", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Collection exposes the underlying collection for the change-stream watcher.
func (r *BulletinRepository) Collection() *mongo.Collection {
	return r.col
}
