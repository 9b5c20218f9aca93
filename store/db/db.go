package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/store"
	"github.com/hrygo/tastefeed/store/db/postgres"
	"github.com/hrygo/tastefeed/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// PostgreSQL is the production driver: embeddings are stored in pgvector
// columns. SQLite is the development/demo driver: embeddings are stored as
// JSON text and parsed on read.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
