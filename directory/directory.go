// Package directory is the query, search, and persistence layer for venues,
// artists, and the shows joining them. it returns typed results and never
// decides on user facing messaging
package directory

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/rainycape/unidecode"

	"go.senan.xyz/fyyur/db"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failure")
	ErrUnknownReference = errors.New("unknown reference")
)

// PersistenceError is returned for any failed insert, update, delete, or
// commit. the surrounding transaction has been rolled back
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error        { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ReferenceError is returned when a show names an artist or venue which
// doesn't exist. Field is the form field name of the reference
type ReferenceError struct {
	Field string
	ID    int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v: %s %d", ErrUnknownReference, e.Field, e.ID)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrUnknownReference }

type Store struct {
	db  *db.DB
	Now func() time.Time
}

func New(dbc *db.DB) *Store {
	return &Store{
		db:  dbc,
		Now: time.Now,
	}
}

// persistence passes through errors which are already part of our contract,
// and wraps everything else
func persistence(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownReference), errors.Is(err, ErrPersistence):
		return err
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// decoded converts a string to it's latin equivalent. it's only set if it
// differs from the original, and is used for searching
func decoded(in string) string {
	if u := unidecode.Unidecode(in); u != in {
		return u
	}
	return ""
}
