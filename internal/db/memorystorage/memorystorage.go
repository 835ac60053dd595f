package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/userreg/internal/db/jsondb"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

// MemoryStorage keeps users in the jsondb cache without a backing file.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Users: map[string]*user.User{},
			},
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
