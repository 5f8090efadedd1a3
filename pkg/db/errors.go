package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraintName is set, only violations of that constraint match.
// SQLite messages are recognised so repository tests exercise the same path.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	if diag := pkgerrors.PostgresDiagnosticsOf(err); diag != nil {
		if diag.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || diag.Constraint == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" && strings.Contains(msg, "duplicate key value") {
		return strings.Contains(msg, constraintName)
	}
	return true
}
