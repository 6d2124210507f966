package patient

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/query"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// DeleteResult reports what a cascade removed.
type DeleteResult struct {
	PatientID        string   `json:"patientId"`
	IncidentsRemoved []string `json:"incidentsRemoved"`
	UsersRemoved     []string `json:"usersRemoved"`
	SessionCleared   bool     `json:"sessionCleared"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, in model.PatientInput) (*model.Patient, error)
	// Update validates in and replaces every editable field of the patient.
	Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error)
	Get(ctx context.Context, id string) (*model.Patient, error)
	List(ctx context.Context, search string) ([]model.Patient, error)
	// Delete removes the patient with its incidents and linked accounts.
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Option func(*patientService)

// WithClock overrides the time used to reject future birth dates.
func WithClock(now func() time.Time) Option {
	return func(s *patientService) { s.now = now }
}

func WithIDGenerator(next func() string) Option {
	return func(s *patientService) { s.newID = next }
}

type patientService struct {
	db     *repo.Client
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func New(db *repo.Client, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &patientService{db: db, logger: logger, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *patientService) Create(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	p, err := in.Validate(s.now())
	if err != nil {
		return nil, err
	}
	p.ID = s.newID()

	err = s.db.Tx(ctx, func(tx *repo.Tx) error {
		all, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		return tx.Patients().SaveAll(append(all, p))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "patient created", "patient_id", p.ID)
	return &p, nil
}

func (s *patientService) Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error) {
	var p model.Patient
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		all, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		i := slices.IndexFunc(all, func(x model.Patient) bool { return x.ID == id })
		if i < 0 {
			return ErrPatientNotFound
		}

		if p, err = in.Over(all[i]).Validate(s.now()); err != nil {
			return err
		}
		p.ID = id
		all[i] = p
		return tx.Patients().SaveAll(all)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *patientService) Get(ctx context.Context, id string) (*model.Patient, error) {
	var out *model.Patient
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		p, found, err := tx.Patients().Get(id)
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		if !found {
			return ErrPatientNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *patientService) List(ctx context.Context, search string) ([]model.Patient, error) {
	var out []model.Patient
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		all, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		out = query.SearchPatients(all, search)
		return nil
	})
	return out, err
}

func (s *patientService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	res := &DeleteResult{PatientID: id, IncidentsRemoved: []string{}, UsersRemoved: []string{}}

	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		patients, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		before := len(patients)
		patients = slices.DeleteFunc(patients, func(p model.Patient) bool { return p.ID == id })
		if len(patients) == before {
			return ErrPatientNotFound
		}
		if err := tx.Patients().SaveAll(patients); err != nil {
			return err
		}

		incidents, err := tx.Incidents().All()
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		incidents = slices.DeleteFunc(incidents, func(inc model.Incident) bool {
			if inc.PatientID == id {
				res.IncidentsRemoved = append(res.IncidentsRemoved, inc.ID)
				return true
			}
			return false
		})
		if err := tx.Incidents().SaveAll(incidents); err != nil {
			return err
		}

		users, err := tx.Users().All()
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		users = slices.DeleteFunc(users, func(u model.User) bool {
			if u.Role == model.RolePatient && u.PatientID == id {
				res.UsersRemoved = append(res.UsersRemoved, u.ID)
				return true
			}
			return false
		})
		if err := tx.Users().SaveAll(users); err != nil {
			return err
		}

		current, err := tx.Session().Get()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if current != nil && slices.Contains(res.UsersRemoved, current.ID) {
			res.SessionCleared = true
			return tx.Session().Clear()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "patient deleted",
		"patient_id", id,
		"incidents_removed", len(res.IncidentsRemoved),
		"users_removed", len(res.UsersRemoved),
		"session_cleared", res.SessionCleared,
	)
	return res, nil
}
