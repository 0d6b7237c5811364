// Package corpus loads the reference collection of past exam papers and
// marking schemes, normalizes the historical document shapes into one
// canonical form, and serves immutable snapshots through a TTL cache.
package corpus

import (
	"context"

	"github.com/dhowell/papermatch/internal/model"
)

// Source produces a fresh corpus snapshot. Implementations read a fixture
// directory or a remote corpus service; normalization and integrity
// validation happen inside Load, so consumers only ever see canonical,
// validated shapes.
type Source interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}
