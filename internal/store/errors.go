package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	codeUndefinedTable  = "42P01"
	codeUniqueViolation = "23505"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("conflict")

	// ErrSchemaNotProvisioned is returned when a table the query needs does
	// not exist yet, i.e. migrations have not run.
	ErrSchemaNotProvisioned = errors.New("schema not provisioned")

	// ErrStoreFailure wraps every other database error.
	ErrStoreFailure = errors.New("store failure")

	// ErrConnectivity marks transport failures reaching the database.
	// It also matches ErrStoreFailure.
	ErrConnectivity = errors.New("database unreachable")
)

// StoreError carries the classified sentinel and the driver error.
type StoreError struct {
	Kind error
	Code string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Is matches the classified sentinel.
func (e *StoreError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrConnectivity && target == ErrStoreFailure
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Message returns the driver's message, for operator diagnostics.
func (e *StoreError) Message() string {
	var pqErr *pq.Error
	if errors.As(e.Err, &pqErr) {
		return pqErr.Message
	}
	return e.Err.Error()
}

// Classify maps a database/sql or lib/pq error onto the store sentinels.
// nil stays nil and already-classified errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var classified *StoreError
	if errors.As(err, &classified) || errors.Is(err, ErrNotFound) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch code {
		case codeUndefinedTable:
			return &StoreError{Kind: ErrSchemaNotProvisioned, Code: code, Err: err}
		case codeUniqueViolation:
			return &StoreError{Kind: ErrConflict, Code: code, Err: err}
		default:
			return &StoreError{Kind: ErrStoreFailure, Code: code, Err: err}
		}
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return &StoreError{Kind: ErrConnectivity, Err: err}
	}
	return &StoreError{Kind: ErrStoreFailure, Err: err}
}

// Message returns a diagnostic message for err: the driver message for store
// errors, err.Error() otherwise.
func Message(err error) string {
	var classified *StoreError
	if errors.As(err, &classified) {
		return classified.Message()
	}
	return err.Error()
}
