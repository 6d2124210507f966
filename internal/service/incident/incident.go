package incident

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/Alijeyrad/dentalcenter/internal/attachment"
	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/query"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
)

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, in model.IncidentInput) (*model.Incident, error)
	// Update replaces the editable fields. The patient never changes; nil
	// Files keeps the current attachments.
	Update(ctx context.Context, id string, in model.IncidentInput) (*model.Incident, error)
	Get(ctx context.Context, id string) (*query.IncidentView, error)
	List(ctx context.Context, f query.IncidentFilter) ([]query.IncidentView, error)
	ListForPatient(ctx context.Context, patientID string) ([]model.Incident, error)
	Delete(ctx context.Context, id string) error

	// AttachFiles encodes every source and appends them in order. Nothing is
	// attached unless all sources encode.
	AttachFiles(ctx context.Context, id string, sources []attachment.Source) (*model.Incident, error)
	RemoveFile(ctx context.Context, id string, index int) (*model.Incident, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type incidentService struct {
	db      *repo.Client
	encoder attachment.Encoder
	logger  *slog.Logger
	newID   func() string
}

type Option func(*incidentService)

func WithIDGenerator(next func() string) Option {
	return func(s *incidentService) { s.newID = next }
}

func New(db *repo.Client, encoder attachment.Encoder, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &incidentService{db: db, encoder: encoder, logger: logger, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *incidentService) Create(ctx context.Context, in model.IncidentInput) (*model.Incident, error) {
	inc, err := in.Validate()
	if err != nil {
		return nil, err
	}
	inc.ID = s.newID()

	err = s.db.Tx(ctx, func(tx *repo.Tx) error {
		if _, found, err := tx.Patients().Get(inc.PatientID); err != nil {
			return fmt.Errorf("load patients: %w", err)
		} else if !found {
			return ErrPatientNotFound
		}

		all, err := tx.Incidents().All()
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		return tx.Incidents().SaveAll(append(all, inc))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "incident created", "incident_id", inc.ID, "patient_id", inc.PatientID)
	return &inc, nil
}

func (s *incidentService) Update(ctx context.Context, id string, in model.IncidentInput) (*model.Incident, error) {
	var out model.Incident
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		return s.modify(tx, id, func(cur *model.Incident) error {
			in.PatientID = cur.PatientID
			if in.Files == nil {
				in.Files = cur.Files
			}
			next, err := in.Validate()
			if err != nil {
				return err
			}
			next.ID = cur.ID
			*cur = next
			out = next
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// modify applies fn to the incident with id inside tx and stages the result.
func (s *incidentService) modify(tx *repo.Tx, id string, fn func(*model.Incident) error) error {
	all, err := tx.Incidents().All()
	if err != nil {
		return fmt.Errorf("load incidents: %w", err)
	}
	i := slices.IndexFunc(all, func(x model.Incident) bool { return x.ID == id })
	if i < 0 {
		return ErrIncidentNotFound
	}
	if err := fn(&all[i]); err != nil {
		return err
	}
	return tx.Incidents().SaveAll(all)
}

func (s *incidentService) Get(ctx context.Context, id string) (*query.IncidentView, error) {
	var out *query.IncidentView
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		inc, found, err := tx.Incidents().Get(id)
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		if !found {
			return ErrIncidentNotFound
		}
		patients, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		out = &query.Views([]model.Incident{inc}, patients)[0]
		return nil
	})
	return out, err
}

func (s *incidentService) List(ctx context.Context, f query.IncidentFilter) ([]query.IncidentView, error) {
	var out []query.IncidentView
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		incidents, err := tx.Incidents().All()
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		patients, err := tx.Patients().All()
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		out = query.FilterIncidents(incidents, patients, f)
		return nil
	})
	return out, err
}

// ListForPatient returns the patient's incidents most recent first.
func (s *incidentService) ListForPatient(ctx context.Context, patientID string) ([]model.Incident, error) {
	var out []model.Incident
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		var err error
		out, err = tx.Incidents().ForPatient(patientID)
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		query.SortRecentFirst(out)
		return nil
	})
	return out, err
}

func (s *incidentService) Delete(ctx context.Context, id string) error {
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		all, err := tx.Incidents().All()
		if err != nil {
			return fmt.Errorf("load incidents: %w", err)
		}
		before := len(all)
		all = slices.DeleteFunc(all, func(x model.Incident) bool { return x.ID == id })
		if len(all) == before {
			return ErrIncidentNotFound
		}
		return tx.Incidents().SaveAll(all)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "incident deleted", "incident_id", id)
	return nil
}

func (s *incidentService) AttachFiles(ctx context.Context, id string, sources []attachment.Source) (*model.Incident, error) {
	if len(sources) == 0 {
		return nil, ErrNoFiles
	}

	// Encode outside the transaction; reading uploads can be slow.
	files, err := s.encoder.EncodeBatch(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}

	var out model.Incident
	err = s.db.Tx(ctx, func(tx *repo.Tx) error {
		return s.modify(tx, id, func(cur *model.Incident) error {
			cur.Files = append(slices.Clone(cur.Files), files...)
			out = *cur
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "attachments added", "incident_id", id, "count", len(files))
	return &out, nil
}

func (s *incidentService) RemoveFile(ctx context.Context, id string, index int) (*model.Incident, error) {
	var out model.Incident
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		return s.modify(tx, id, func(cur *model.Incident) error {
			if index < 0 || index >= len(cur.Files) {
				return ErrFileNotFound
			}
			cur.Files = slices.Delete(slices.Clone(cur.Files), index, index+1)
			out = *cur
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
