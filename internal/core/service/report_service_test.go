package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

var submitTime = time.Date(2025, 8, 10, 21, 30, 0, 0, time.UTC)

func newReportSvc(repo *stubReportRepo, idem *stubIdem, alerts *stubDispatcher) *ReportService {
	var idemPort ports.IdempotencyStore
	if idem != nil {
		idemPort = idem
	}
	var alertPort ports.AlertDispatcher
	if alerts != nil {
		alertPort = alerts
	}
	svc := NewReportService(repo, idemPort, alertPort, domain.ReportPolicy{FutureSkew: 5 * time.Minute}, zerolog.Nop())
	svc.now = fixedClock(submitTime)
	return svc
}

func TestReportService_Submit_DefaultsTimeAndSeverity(t *testing.T) {
	repo := &stubReportRepo{}
	svc := newReportSvc(repo, nil, nil)

	res, err := svc.Submit(context.Background(), ports.SubmitReportInput{
		OwnerID:  "u1",
		Severity: "normal",
		Body:     "Loud noise",
		Location: "Block 3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Report.OccurredAt.Equal(submitTime) {
		t.Errorf("expected occurred_at = submission time, got %v", res.Report.OccurredAt)
	}
	if res.Report.Severity != domain.SeverityNormal {
		t.Errorf("expected normal severity, got %s", res.Report.Severity)
	}
	if len(repo.reports) != 1 {
		t.Fatalf("expected one stored report, got %d", len(repo.reports))
	}
}

func TestReportService_Submit_EmptySeverityIsNormal(t *testing.T) {
	res, err := newReportSvc(&stubReportRepo{}, nil, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Stray dog", Location: "Gate",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.Severity != domain.SeverityNormal {
		t.Errorf("expected normal, got %s", res.Report.Severity)
	}
}

func TestReportService_Submit_RejectsBlankFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		location string
	}{
		{name: "empty body", body: "", location: "Block 3"},
		{name: "whitespace body", body: "   ", location: "Block 3"},
		{name: "empty location", body: "Loud noise", location: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubReportRepo{}
			_, err := newReportSvc(repo, nil, nil).Submit(context.Background(), ports.SubmitReportInput{
				OwnerID: "u1", Body: tt.body, Location: tt.location,
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
			if len(repo.reports) != 0 {
				t.Error("rejected report must not be stored")
			}
		})
	}
}

func TestReportService_Submit_Backdated(t *testing.T) {
	when := submitTime.Add(-26 * time.Hour)
	res, err := newReportSvc(&stubReportRepo{}, nil, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Fight", Location: "Court", OccurredAt: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Report.OccurredAt.Equal(when) {
		t.Errorf("expected backdated time, got %v", res.Report.OccurredAt)
	}
}

func TestReportService_Submit_FutureRejected(t *testing.T) {
	when := submitTime.Add(2 * time.Hour)
	_, err := newReportSvc(&stubReportRepo{}, nil, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Fight", Location: "Court", OccurredAt: &when,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
}

func TestReportService_Submit_FutureAcceptedWhenAllowed(t *testing.T) {
	repo := &stubReportRepo{}
	svc := NewReportService(repo, nil, nil, domain.ReportPolicy{AllowFuture: true, FutureSkew: 5 * time.Minute}, zerolog.Nop())
	svc.now = fixedClock(submitTime)

	when := submitTime.Add(time.Hour)
	res, err := svc.Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Curfew patrol", Location: "Purok 2", OccurredAt: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Report.OccurredAt.Equal(when) {
		t.Errorf("expected occurred_at kept as-is, got %v", res.Report.OccurredAt)
	}
}

func TestReportService_Submit_EmergencyDispatchesAlert(t *testing.T) {
	alerts := &stubDispatcher{}
	svc := newReportSvc(&stubReportRepo{}, nil, alerts)

	_, err := svc.Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Severity: "emergency", Body: "Fire", Location: "Market", ReporterName: "Juan",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 1 || alerts.alerts[0].Reporter != "Juan" {
		t.Errorf("expected one alert from Juan, got %+v", alerts.alerts)
	}

	_, _ = svc.Submit(context.Background(), ports.SubmitReportInput{OwnerID: "u1", Body: "Noise", Location: "Market"})
	if len(alerts.alerts) != 1 {
		t.Error("normal reports must not raise alerts")
	}
}

func TestReportService_Submit_IdempotentReplay(t *testing.T) {
	repo := &stubReportRepo{}
	svc := newReportSvc(repo, newStubIdem(), nil)
	in := ports.SubmitReportInput{OwnerID: "u1", Body: "Noise", Location: "Block 3", IdempotencyKey: "k-1"}

	first, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if !second.Replayed || second.Report.ID != first.Report.ID {
		t.Errorf("expected replay of %s, got %+v", first.Report.ID, second)
	}
	if len(repo.reports) != 1 {
		t.Errorf("expected a single stored report, got %d", len(repo.reports))
	}
}

func TestReportService_Submit_IdempotencyStoreErrorSubmitsAnyway(t *testing.T) {
	repo := &stubReportRepo{}
	idem := newStubIdem()
	idem.reserveErr = errors.New("redis timeout")

	_, err := newReportSvc(repo, idem, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Noise", Location: "Block 3", IdempotencyKey: "k-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.reports) != 1 {
		t.Error("expected the report to be stored")
	}
}

func TestReportService_Submit_InFlightKeyConflicts(t *testing.T) {
	repo := &stubReportRepo{}
	idem := newStubIdem()
	// Another request reserved the key and is still inserting.
	if ok, _ := idem.Reserve(context.Background(), "u1", "k-1"); !ok {
		t.Fatal("setup: reserve failed")
	}

	_, err := newReportSvc(repo, idem, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Noise", Location: "Block 3", IdempotencyKey: "k-1",
	})
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got: %v", err)
	}
	if len(repo.reports) != 0 {
		t.Errorf("expected no insert while the key is in flight, got %d", len(repo.reports))
	}
}

func TestReportService_Submit_InsertFailureReleasesKey(t *testing.T) {
	repo := &stubReportRepo{insertErr: errors.New("mongo down")}
	idem := newStubIdem()
	svc := newReportSvc(repo, idem, nil)
	in := ports.SubmitReportInput{OwnerID: "u1", Body: "Noise", Location: "Block 3", IdempotencyKey: "k-1"}

	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got: %v", err)
	}
	if idem.released != 1 {
		t.Errorf("expected the reservation to be released, got %d releases", idem.released)
	}

	repo.insertErr = nil
	res, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("retry after release: %v", err)
	}
	if res.Replayed || idem.keys["u1:k-1"] != res.Report.ID {
		t.Errorf("expected a fresh report remembered under the key, got %+v", res)
	}
}

func TestReportService_Submit_StaleKeyIsTakenOver(t *testing.T) {
	repo := &stubReportRepo{}
	idem := newStubIdem()
	_ = idem.Remember(context.Background(), "u1", "k-1", "deleted-report")

	res, err := newReportSvc(repo, idem, nil).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Body: "Noise", Location: "Block 3", IdempotencyKey: "k-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Replayed || len(repo.reports) != 1 {
		t.Fatalf("expected a new report, got %+v", res)
	}
	if got := idem.keys["u1:k-1"]; got != res.Report.ID {
		t.Errorf("expected key to map to %s, got %s", res.Report.ID, got)
	}
}

func TestReportService_Submit_InsertFailure(t *testing.T) {
	alerts := &stubDispatcher{}
	_, err := newReportSvc(&stubReportRepo{insertErr: errors.New("mongo down")}, nil, alerts).Submit(context.Background(), ports.SubmitReportInput{
		OwnerID: "u1", Severity: "emergency", Body: "Fire", Location: "Market",
	})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got: %v", err)
	}
	if len(alerts.alerts) != 0 {
		t.Error("no alert for a report that was not stored")
	}
}

func TestReportService_ListForWindow_SingleDay(t *testing.T) {
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{reports: []domain.Report{
		{ID: "before", OccurredAt: day.Add(-time.Millisecond)},
		{ID: "start", OccurredAt: day},
		{ID: "noon", OccurredAt: day.Add(12 * time.Hour)},
		{ID: "end", OccurredAt: day.Add(24*time.Hour - time.Millisecond)},
		{ID: "after", OccurredAt: day.Add(24 * time.Hour)},
	}}
	window, err := domain.NewDayWindow(day, day, time.UTC)
	if err != nil {
		t.Fatalf("window: %v", err)
	}

	got, err := newReportSvc(repo, nil, nil).ListForWindow(context.Background(), window, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"end", "noon", "start"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %+v", want, got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestReportService_ListEmergencies(t *testing.T) {
	repo := &stubReportRepo{reports: []domain.Report{
		{ID: "a", Severity: domain.SeverityNormal},
		{ID: "b", Severity: domain.SeverityEmergency},
	}}
	got, err := newReportSvc(repo, nil, nil).ListEmergencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("unexpected emergencies: %+v", got)
	}
	if repo.lastFilter.Severity != domain.SeverityEmergency {
		t.Errorf("expected emergency filter, got %+v", repo.lastFilter)
	}
}

func TestReportService_ListForOwner(t *testing.T) {
	repo := &stubReportRepo{reports: []domain.Report{{ID: "a", OwnerID: "u1"}, {ID: "b", OwnerID: "u2"}}}
	svc := newReportSvc(repo, nil, nil)

	got, err := svc.ListForOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("unexpected reports: %+v", got)
	}

	if _, err := svc.ListForOwner(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}

	repo.listErr = errors.New("timeout")
	if _, err := svc.ListForOwner(context.Background(), "u1"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got: %v", err)
	}
}
