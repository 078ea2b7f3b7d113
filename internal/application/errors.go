package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrMissingTargets    = errors.New("missing referenced sections")
	ErrDuplicateSections = errors.New("duplicate section ids")
	ErrNoSections        = errors.New("no sections to assemble")
)

// MissingTargetsError is the fatal assembly failure raised when referenced
// sections are absent and stub backfill is not authorized. It carries every
// offending id, not just the first, so the gap can be root-caused in one
// pass.
type MissingTargetsError struct {
	IDs []string // sorted
}

func (e *MissingTargetsError) Error() string {
	return fmt.Sprintf("assembly refused: %d referenced sections missing without stub policy: %s",
		len(e.IDs), strings.Join(e.IDs, ", "))
}

func (e *MissingTargetsError) Is(target error) bool {
	return target == ErrMissingTargets
}

// DuplicateSectionsError is raised at the input boundary when the record
// stream carries the same section id more than once.
type DuplicateSectionsError struct {
	IDs []string // sorted
}

func (e *DuplicateSectionsError) Error() string {
	return fmt.Sprintf("input contains %d duplicate section ids: %s",
		len(e.IDs), strings.Join(e.IDs, ", "))
}

func (e *DuplicateSectionsError) Is(target error) bool {
	return target == ErrDuplicateSections
}

// ValidationError represents a rejected command input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
