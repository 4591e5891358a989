package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

const collectionAttendance = "attendanceLogs"

// AttendanceRepository implements ports.AttendanceRepository using MongoDB.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type attendanceDocument struct {
	ID        string    `bson:"_id"`
	UID       string    `bson:"uid"`
	Type      string    `bson:"type"`
	Timestamp time.Time `bson:"timestamp"`
	Location  string    `bson:"location,omitempty"`
}

// Append inserts a single ledger entry.
func (r *AttendanceRepository) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, attendanceDocument{
		ID:        rec.ID,
		UID:       rec.OwnerID,
		Type:      string(rec.Kind),
		Timestamp: rec.OccurredAt.UTC(),
		Location:  rec.Location,
	})
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's ledger ordered by timestamp descending.
// Entries sharing a timestamp keep the server's natural order.
func (r *AttendanceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"uid": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}

	var docs []attendanceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	records := make([]domain.AttendanceRecord, len(docs))
	for i, d := range docs {
		records[i] = domain.AttendanceRecord{
			ID:         d.ID,
			OwnerID:    d.UID,
			Kind:       domain.AttendanceKind(d.Type),
			OccurredAt: d.Timestamp.UTC(),
			Location:   d.Location,
		}
	}
	return records, nil
}

// EnsureIndexes creates the index backing per-owner ledger reads.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
