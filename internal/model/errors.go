package model

import "fmt"

// IntegrityError reports corrupted reference data: a matched corpus entry
// missing metadata the engine must not guess (board, code, series,
// qualification) or a sub-question without a structural identifier. Unlike a
// detection miss this is a hard failure and must not be swallowed — guessing
// paper identity risks marking against the wrong scheme.
type IntegrityError struct {
	Entity string // "paper", "question", "scheme"
	Ref    string // best available identifier for the broken entity
	Field  string // the missing or invalid field
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("corpus integrity: %s %q missing %s", e.Entity, e.Ref, e.Field)
}
