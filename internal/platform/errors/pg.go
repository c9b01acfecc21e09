package errors

// Postgres helpers for classifying failures of read-only change log replicas

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes a replica returns when the query may succeed later
const (
	pgQueryCanceled        = "57014" // statement_timeout
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
	pgSerializationFailure = "40001" // hot standby recovery conflicts land here
	pgClassConnection      = "08"
	pgClassResources       = "53"
)

// PgError returns the *pgconn.PgError in err's chain, if any
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// pgCode maps a postgres error to Unavailable when retrying could help, DB otherwise
// ok is false when err carries no PgError
func pgCode(err error) (ErrorCode, bool) {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgQueryCanceled, pgAdminShutdown, pgCannotConnectNow, pgSerializationFailure:
		return ErrorCodeUnavailable, true
	}
	if strings.HasPrefix(pgErr.Code, pgClassConnection) || strings.HasPrefix(pgErr.Code, pgClassResources) {
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}
