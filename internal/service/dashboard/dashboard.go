package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/query"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Summary struct {
	TotalPatients       int                  `json:"totalPatients"`
	Upcoming            []query.IncidentView `json:"upcoming"`
	PendingTreatments   int                  `json:"pendingTreatments"`
	CompletedTreatments int                  `json:"completedTreatments"`
	Revenue             float64              `json:"revenue"`
	TopPatients         []query.PatientCount `json:"topPatients"`
}

type History struct {
	Upcoming []model.Incident `json:"upcoming"`
	Past     []model.Incident `json:"past"`
}

type PatientDashboard struct {
	Patient model.Patient `json:"patient"`
	History
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Service computes every view from the current collections on each call.
type Service interface {
	AdminSummary(ctx context.Context) (*Summary, error)
	History(ctx context.Context, patientID string) (*History, error)
	Calendar(ctx context.Context, w query.Window) ([]query.Event, error)
	PatientDashboard(ctx context.Context, sess *auth.Session) (*PatientDashboard, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type dashboardService struct {
	db  *repo.Client
	now func() time.Time
}

type Option func(*dashboardService)

func WithClock(now func() time.Time) Option {
	return func(s *dashboardService) { s.now = now }
}

func New(db *repo.Client, opts ...Option) Service {
	s := &dashboardService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads both collections in one view.
func (s *dashboardService) load(ctx context.Context) ([]model.Incident, []model.Patient, error) {
	var (
		incidents []model.Incident
		patients  []model.Patient
	)
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		var err error
		if incidents, err = tx.Incidents().All(); err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		if patients, err = tx.Patients().All(); err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		return nil
	})
	return incidents, patients, err
}

func (s *dashboardService) AdminSummary(ctx context.Context) (*Summary, error) {
	incidents, patients, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalPatients:       len(patients),
		Upcoming:            query.Views(query.Upcoming(incidents, s.now(), query.UpcomingLimit), patients),
		PendingTreatments:   query.CountOpen(incidents),
		CompletedTreatments: query.CountCompleted(incidents),
		Revenue:             query.Revenue(incidents),
		TopPatients:         query.TopPatients(incidents, patients, query.TopPatientsLimit),
	}, nil
}

func (s *dashboardService) History(ctx context.Context, patientID string) (*History, error) {
	incidents, patients, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := query.NameIndex(patients)[patientID]; !ok {
		return nil, ErrPatientNotFound
	}

	upcoming, past := query.History(incidents, patientID, s.now())
	return &History{Upcoming: upcoming, Past: past}, nil
}

func (s *dashboardService) Calendar(ctx context.Context, w query.Window) ([]query.Event, error) {
	incidents, patients, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return query.CalendarEvents(incidents, patients, w), nil
}

func (s *dashboardService) PatientDashboard(ctx context.Context, sess *auth.Session) (*PatientDashboard, error) {
	if !sess.IsPatient() {
		return nil, ErrNotPatient
	}

	incidents, patients, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	id := sess.PatientID()
	for _, p := range patients {
		if p.ID == id {
			upcoming, past := query.History(incidents, id, s.now())
			return &PatientDashboard{Patient: p, History: History{Upcoming: upcoming, Past: past}}, nil
		}
	}
	return nil, ErrPatientNotFound
}
