package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource une des trois sources est introuvable ou illisible
	ErrMissingSource = errors.New("missing source")
	// ErrValidation une table est structurellement inutilisable
	ErrValidation = errors.New("validation failure")
)

// MissingSourceError source absente, l'ingestion s'arrête
type MissingSourceError struct {
	Table TableName
	Path  string
	Err   error
}

func (e *MissingSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing source for %s (%s): %v", e.Table, e.Path, e.Err)
	}
	return fmt.Sprintf("missing source for %s (%s)", e.Table, e.Path)
}

// Is permet errors.Is(err, ErrMissingSource)
func (e *MissingSourceError) Is(target error) bool {
	return target == ErrMissingSource
}

func (e *MissingSourceError) Unwrap() error {
	return e.Err
}

// ValidationError colonne critique absente après normalisation
type ValidationError struct {
	Table  TableName
	Column Column
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failure on %s.%s: %s", e.Table, e.Column, e.Reason)
}

// Is permet errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
