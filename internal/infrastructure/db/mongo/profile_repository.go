package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

const collectionUsers = "users"

// ProfileRepository stores one document per principal, keyed by principal id.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionUsers)}
}

type profileDocument struct {
	ID          string    `bson:"_id"`
	DisplayName string    `bson:"displayName"`
	Email       string    `bson:"email"`
	Role        string    `bson:"role"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:          d.ID,
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Role:        domain.ParseRole(d.Role),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

// CreateIfAbsent upserts with $setOnInsert so an existing profile is never
// overwritten and concurrent first visits converge on one document.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, p *domain.Profile) (*domain.Profile, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{
		"displayName": p.DisplayName,
		"email":       p.Email,
		"role":        string(p.Role),
		"createdAt":   p.CreatedAt.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("upsert profile: %w", err)
	}
	created := err == nil && res.UpsertedCount == 1

	stored, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "displayName", Value: 1}})
	return r.find(ctx, bson.M{"role": string(role)}, opts)
}

func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error) {
	out := make(map[string]*domain.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	profiles, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProfileRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Profile, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	var docs []profileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]*domain.Profile, len(docs))
	for i, d := range docs {
		profiles[i] = d.toDomain()
	}
	return profiles, nil
}

// EnsureIndexes creates the index backing the tanod list query.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}, {Key: "displayName", Value: 1}},
	})
	return err
}
