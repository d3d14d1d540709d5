package auditlogger

import (
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type auditLogger struct {
	log logger.Logger
}

type AuditLogger interface {
	Logf(action string, correlationID uuid.UUID, targetUser, targetTeam string, message string, messageArgs ...interface{})
}

// New Audit logging for mutating operations against the GitHub API. Entries
// go to the structured log stream; there is no database sink as the service
// keeps no local state.
func New(log logger.Logger) AuditLogger {
	return &auditLogger{
		log: log,
	}
}

func (l *auditLogger) Logf(action string, correlationID uuid.UUID, targetUser, targetTeam string, message string, messageArgs ...interface{}) {
	fields := logrus.Fields{
		"action":         action,
		"correlation_id": correlationID,
	}

	if targetUser != "" {
		fields["target_user"] = targetUser
	}

	if targetTeam != "" {
		fields["target_team"] = targetTeam
	}

	l.log.WithFields(fields).Infof(message, messageArgs...)
}
