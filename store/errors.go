package store

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrIntegrity reports a storage-level constraint rejection (duplicate
// identifier, foreign key, NOT NULL). Callers match it with errors.Is.
var ErrIntegrity = errors.New("store: integrity constraint violated")

// classify maps driver constraint failures onto ErrIntegrity and passes
// everything else through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}
