package errors

// Helpers for classifying failures coming out of the change log data source,
// whichever engine backs it (postgres, clickhouse or sqlite)

import (
	"context"
	stderrs "errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"modernc.org/sqlite"
)

// sqlite primary result codes that mean "try again later"
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// clickhouse server exception codes for timeouts and overload
const (
	chTimeoutExceeded   = 159
	chSocketTimeout     = 209
	chNetworkError      = 210
	chTooManyQueries    = 202
	chTooManySimultanQs = 203
)

// DataSourceCode maps a raw data source error to an ErrorCode
// Deadlines and busy engines are Unavailable; everything else is DB
func DataSourceCode(err error) ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}
	if e, ok := As(err); ok && (e.code == ErrorCodeDB || e.code == ErrorCodeUnavailable) {
		return e.code
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return ErrorCodeUnavailable
	}
	if code, ok := pgCode(err); ok {
		return code
	}
	var lite *sqlite.Error
	if stderrs.As(err, &lite) {
		switch lite.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return ErrorCodeUnavailable
		}
		return ErrorCodeDB
	}
	var ch *clickhouse.Exception
	if stderrs.As(err, &ch) {
		switch ch.Code {
		case chTimeoutExceeded, chSocketTimeout, chNetworkError, chTooManyQueries, chTooManySimultanQs:
			return ErrorCodeUnavailable
		}
	}
	return ErrorCodeDB
}

// FromDataSource wraps a data source error with a mapped code and message
// If err is nil, returns nil
func FromDataSource(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) {
		return err
	}
	return Wrap(err, DataSourceCode(err), msg)
}

// IsDataSource reports whether err came from the data source layer
func IsDataSource(err error) bool {
	c := CodeOf(err)
	return c == ErrorCodeDB || c == ErrorCodeUnavailable
}
