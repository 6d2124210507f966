package authorize

import "log/slog"

// Config holds configuration for the authorization system
type Config struct {
	// EnableAudit logs every authorization decision
	EnableAudit bool
	Logger      *slog.Logger
}

func DefaultConfig() Config {
	return Config{EnableAudit: true}
}
