package store

import "errors"

// Sentinel errors returned by Store implementations. Callers match
// them with errors.Is.
var (
	// ErrSkillNotFound is returned when a skill name or id does not
	// resolve to a registered skill.
	ErrSkillNotFound = errors.New("store: skill not found")

	// ErrSkillExists is returned when adding a skill whose name is
	// already registered.
	ErrSkillExists = errors.New("store: skill already exists")

	// ErrConflict is returned when a concurrent writer updated the
	// same card first. The operation can be retried.
	ErrConflict = errors.New("store: concurrent update conflict")

	// ErrInvalidLimit is returned for negative limits.
	ErrInvalidLimit = errors.New("store: limit must not be negative")
)
