package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alijeyrad/dentalcenter/internal/model"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/pkg/password"
)

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// Session is the authenticated user. It never carries the password.
type Session struct {
	User model.User `json:"user"`
}

func NewSession(u model.User) *Session {
	return &Session{User: u.Public()}
}

func (s *Session) IsAdmin() bool   { return s != nil && s.User.Role == model.RoleAdmin }
func (s *Session) IsPatient() bool { return s != nil && s.User.Role == model.RolePatient }

// PatientID is the linked patient record, empty for admins.
func (s *Session) PatientID() string {
	if !s.IsPatient() {
		return ""
	}
	return s.User.PatientID
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Login checks the credentials and persists the session.
	Login(ctx context.Context, email, pass string) (*Session, error)
	// Authenticate checks the credentials without touching the stored session.
	Authenticate(ctx context.Context, email, pass string) (*model.User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*Session, error)
	// UserByID returns the user without its password.
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db     *repo.Client
	logger *slog.Logger
}

func New(db *repo.Client, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{db: db, logger: logger}
}

func (s *authService) Login(ctx context.Context, email, pass string) (*Session, error) {
	var sess *Session
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		u, err := s.check(tx, email, pass)
		if err != nil {
			return err
		}
		if err := tx.Session().Set(u); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		sess = NewSession(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", sess.User.ID, "role", sess.User.Role)
	return sess, nil
}

func (s *authService) Authenticate(ctx context.Context, email, pass string) (*model.User, error) {
	var out model.User
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		u, err := s.check(tx, email, pass)
		out = u.Public()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// check matches the email exactly and the password against either stored
// form. Unknown email and wrong password are indistinguishable.
func (s *authService) check(tx *repo.Tx, email, pass string) (model.User, error) {
	u, found, err := tx.Users().ByEmail(email)
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	if !found || !password.Check(u.Password, pass) {
		s.logger.DebugContext(tx.Context(), "login rejected", "email", email)
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *authService) Logout(ctx context.Context) error {
	err := s.db.Tx(ctx, func(tx *repo.Tx) error {
		return tx.Session().Clear()
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *authService) Current(ctx context.Context) (*Session, error) {
	var sess *Session
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		u, err := tx.Session().Get()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if u == nil {
			return ErrNoSession
		}
		sess = NewSession(*u)
		return nil
	})
	return sess, err
}

func (s *authService) UserByID(ctx context.Context, id string) (*model.User, error) {
	var out *model.User
	err := s.db.View(ctx, func(tx *repo.Tx) error {
		u, found, err := tx.Users().Get(id)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if !found {
			return ErrUserNotFound
		}
		pub := u.Public()
		out = &pub
		return nil
	})
	return out, err
}
