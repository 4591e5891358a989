package service

import (
	"context"
	"sort"
	"time"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Profile repository
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	byID        map[string]*domain.Profile
	findErr     error
	createErr   error
	listErr     error
	createCalls int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byID: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (r *stubProfileRepo) CreateIfAbsent(_ context.Context, p *domain.Profile) (*domain.Profile, bool, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, false, r.createErr
	}
	if existing, ok := r.byID[p.ID]; ok {
		return existing, false, nil
	}
	r.byID[p.ID] = p
	return p, true, nil
}

func (r *stubProfileRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.Profile, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Profile
	for _, p := range r.byID {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (r *stubProfileRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Profile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make(map[string]*domain.Profile)
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Attendance repository and lock
// ---------------------------------------------------------------------------

type stubAttendanceRepo struct {
	byOwner   map[string][]domain.AttendanceRecord // newest first
	appendErr error
	listErr   error
	// listErrAfter fails ListByOwner once this many calls have succeeded (0 = never).
	listErrAfter int
	listCalls    int
	appended     []domain.AttendanceRecord
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{byOwner: make(map[string][]domain.AttendanceRecord)}
}

func (r *stubAttendanceRepo) Append(_ context.Context, rec *domain.AttendanceRecord) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, *rec)
	r.byOwner[rec.OwnerID] = append([]domain.AttendanceRecord{*rec}, r.byOwner[rec.OwnerID]...)
	return nil
}

func (r *stubAttendanceRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.AttendanceRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.listErrAfter > 0 && r.listCalls >= r.listErrAfter {
		return nil, context.DeadlineExceeded
	}
	r.listCalls++
	return append([]domain.AttendanceRecord(nil), r.byOwner[ownerID]...), nil
}

type stubLock struct {
	err      error
	acquired int
	released int
}

func (l *stubLock) Acquire(_ context.Context, _ string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}

// ---------------------------------------------------------------------------
// Report repository, idempotency and alerts
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	reports    []domain.Report
	insertErr  error
	listErr    error
	lastFilter ports.ReportFilter
}

func (r *stubReportRepo) Insert(_ context.Context, rep *domain.Report) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.reports = append(r.reports, *rep)
	return nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	for i := range r.reports {
		if r.reports[i].ID == id {
			rep := r.reports[i]
			return &rep, nil
		}
	}
	return nil, domain.ErrReportNotFound
}

func (r *stubReportRepo) List(_ context.Context, f ports.ReportFilter) ([]domain.Report, error) {
	r.lastFilter = f
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Report
	for _, rep := range r.reports {
		if f.OwnerID != "" && rep.OwnerID != f.OwnerID {
			continue
		}
		if f.Severity != "" && rep.Severity != f.Severity {
			continue
		}
		if !f.From.IsZero() && rep.OccurredAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && rep.OccurredAt.After(f.To) {
			continue
		}
		out = append(out, rep)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

// stubIdem stores "" for a reserved key that has no report yet.
type stubIdem struct {
	keys       map[string]string
	reserveErr error
	released   int
}

func newStubIdem() *stubIdem {
	return &stubIdem{keys: make(map[string]string)}
}

func (s *stubIdem) Reserve(_ context.Context, ownerID, key string) (bool, error) {
	if s.reserveErr != nil {
		return false, s.reserveErr
	}
	if _, ok := s.keys[ownerID+":"+key]; ok {
		return false, nil
	}
	s.keys[ownerID+":"+key] = ""
	return true, nil
}

func (s *stubIdem) Lookup(_ context.Context, ownerID, key string) (string, bool, error) {
	id, ok := s.keys[ownerID+":"+key]
	if ok && id == "" {
		return "", false, ports.ErrIdempotencyPending
	}
	return id, ok, nil
}

func (s *stubIdem) Remember(_ context.Context, ownerID, key, reportID string) error {
	s.keys[ownerID+":"+key] = reportID
	return nil
}

func (s *stubIdem) Release(_ context.Context, ownerID, key string) error {
	if id, ok := s.keys[ownerID+":"+key]; ok && id == "" {
		delete(s.keys, ownerID+":"+key)
		s.released++
	}
	return nil
}

type stubDispatcher struct {
	alerts []ports.EmergencyAlert
}

func (d *stubDispatcher) Enqueue(a ports.EmergencyAlert) {
	d.alerts = append(d.alerts, a)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
