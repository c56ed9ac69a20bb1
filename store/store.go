package store

import (
	"context"
	"fmt"

	"git.fiblab.net/sim/autoownership/ownership"
)

// Store reads households and writes back their auto ownership results.
type Store interface {
	Load(ctx context.Context) ([]*ownership.Household, error)
	Save(ctx context.Context, households []*ownership.Household) error
	Close(ctx context.Context) error
}

// Open connects to the store addressed by path. mongoURI is only used for
// db.coll paths.
func Open(ctx context.Context, path *Path, mongoURI string) (Store, error) {
	if path == nil {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	switch {
	case path.File != "":
		return NewFileStore(path.File), nil
	case path.URL != "":
		return OpenPostgres(ctx, path.URL)
	default:
		if mongoURI == "" {
			return nil, ErrNoMongoURI
		}
		return OpenMongo(mongoURI, path), nil
	}
}

// checkUnique 检查家庭ID是否重复
func checkUnique(households []*ownership.Household) error {
	seen := make(map[int64]struct{}, len(households))
	for _, hh := range households {
		if _, ok := seen[hh.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, hh.ID)
		}
		seen[hh.ID] = struct{}{}
	}
	return nil
}
