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
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

const collectionReports = "eventReports"

// ReportRepository implements ports.ReportRepository using MongoDB.
type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

type reportDocument struct {
	ID        string    `bson:"_id"`
	UID       string    `bson:"uid"`
	Content   string    `bson:"content"`
	LogType   string    `bson:"logType"`
	Location  string    `bson:"location,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

func (d reportDocument) toDomain() domain.Report {
	severity, err := domain.ParseSeverity(d.LogType)
	if err != nil {
		severity = domain.SeverityNormal
	}
	location := d.Location
	if location == "" {
		location = domain.UnknownLocation
	}
	return domain.Report{
		ID:         d.ID,
		OwnerID:    d.UID,
		Severity:   severity,
		Body:       d.Content,
		Location:   location,
		OccurredAt: d.Timestamp.UTC(),
	}
}

// Insert persists a new report document.
func (r *ReportRepository) Insert(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, reportDocument{
		ID:        rep.ID,
		UID:       rep.OwnerID,
		Content:   rep.Body,
		LogType:   string(rep.Severity),
		Location:  rep.Location,
		Timestamp: rep.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reportDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	rep := doc.toDomain()
	return &rep, nil
}

// List returns reports matching filter ordered by timestamp descending.
func (r *ReportRepository) List(ctx context.Context, filter ports.ReportFilter) ([]domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, buildReportFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}

	var docs []reportDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	reports := make([]domain.Report, len(docs))
	for i, d := range docs {
		reports[i] = d.toDomain()
	}
	return reports, nil
}

// buildReportFilter translates a ReportFilter into a BSON query. Both time
// bounds are inclusive.
func buildReportFilter(f ports.ReportFilter) bson.M {
	q := bson.M{}
	if f.OwnerID != "" {
		q["uid"] = f.OwnerID
	}
	if f.Severity != "" {
		q["logType"] = string(f.Severity)
	}
	ts := bson.M{}
	if !f.From.IsZero() {
		ts["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		ts["$lte"] = f.To.UTC()
	}
	if len(ts) > 0 {
		q["timestamp"] = ts
	}
	return q
}

// EnsureIndexes creates indexes for the owner, window and emergency queries.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "logType", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
