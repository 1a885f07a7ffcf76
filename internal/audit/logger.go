package audit

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Event is a security relevant action worth keeping apart from request logs.
type Event struct {
	Action  string
	User    string // username or user id
	Target  string
	Details string
	Success bool
	Err     error
}

const (
	ActionLogin       = "login"
	ActionUserCreated = "user_created"
)

var auditLogger = newAuditLogger(os.Stdout)

func newAuditLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Str("log_type", "audit").Str("service", "osm-auth").Logger()
}

// SetOutput redirects audit events, e.g. to a dedicated file.
func SetOutput(w io.Writer) {
	auditLogger = newAuditLogger(w)
}

// Record writes one audit event.
func Record(e Event) {
	entry := auditLogger.Log().
		Time("timestamp", time.Now().UTC()).
		Str("action", e.Action).
		Bool("success", e.Success)
	if e.User != "" {
		entry = entry.Str("user", e.User)
	}
	if e.Target != "" {
		entry = entry.Str("target", e.Target)
	}
	if e.Details != "" {
		entry = entry.Str("details", e.Details)
	}
	if e.Err != nil {
		entry = entry.Str("error", e.Err.Error())
	}
	entry.Send()
}
