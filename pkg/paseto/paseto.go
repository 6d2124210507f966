package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

type Config struct {
	Issuer    string
	Audience  string
	AccessTTL time.Duration

	Implicit []byte
}

// Manager issues and verifies v4.local access tokens.
type Manager struct {
	cfg Config
	key paseto.V4SymmetricKey
	now func() time.Time
}

func New(cfg Config, key paseto.V4SymmetricKey) (*Manager, error) {
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	return &Manager{cfg: cfg, key: key, now: time.Now}, nil
}

func (m *Manager) TTL() time.Duration { return m.cfg.AccessTTL }

// IssueAccess returns an encrypted token for the user and role.
func (m *Manager) IssueAccess(userID, role string) (string, error) {
	if userID == "" || role == "" {
		return "", ErrConfig{Msg: "user id and role are required"}
	}
	now := m.now()

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(randHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.cfg.AccessTTL))
	tok.SetSubject(userID)

	tok.SetString("uid", userID)
	tok.SetString("role", role)

	return tok.V4Encrypt(m.key, m.cfg.Implicit), nil
}

func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	// Rules are evaluated against the current time, so the parser is per call.
	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.ValidAt(m.now()))

	tok, err := p.ParseV4Local(m.key, tokenStr, m.cfg.Implicit)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok, m.cfg.Issuer, m.cfg.Audience)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	return claims, nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extractClaims(tok *paseto.Token, iss, aud string) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	iat, err := tok.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	nbf, err := tok.GetNotBefore()
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}
	uid, err := tok.GetString("uid")
	if err != nil {
		return nil, err
	}
	role, err := tok.GetString("role")
	if err != nil {
		return nil, err
	}

	return &Claims{
		UserID:    uid,
		Role:      role,
		Issuer:    iss,
		Audience:  aud,
		IssuedAt:  iat,
		NotBefore: nbf,
		ExpiresAt: exp,
		TokenID:   jti,
	}, nil
}
