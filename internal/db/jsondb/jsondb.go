package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/userreg/internal/models"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

// JSONDB is a file-backed user storage. The whole table lives in an
// in-memory cache which is loaded in New and flushed to disk in Close.
type JSONDB struct {
	fileName string
	Cache    CacheStruct
}

type CacheStruct struct {
	Users map[string]*user.User
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(db.fileName, &db.Cache)
		if err != nil {
			return nil, err
		}
	}

	if db.Cache.Users == nil {
		db.Cache.Users = map[string]*user.User{}
	}

	return &db, nil
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

func (db *JSONDB) AddUser(ctx context.Context, usr *user.User) error {
	if _, exists := db.Cache.Users[usr.ID]; exists {
		return fmt.Errorf("user %q: %w", usr.ID, models.ErrUserAlreadyExists)
	}

	stored := *usr
	db.Cache.Users[usr.ID] = &stored

	return nil
}

func (db *JSONDB) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, fmt.Errorf("user %q: %w", userID, models.ErrUserNotFound)
	}

	result := *usr

	return &result, nil
}

func (db *JSONDB) GetAllUsers(ctx context.Context) ([]user.User, error) {
	userIDs := funk.Keys(db.Cache.Users).([]string)
	sort.Strings(userIDs)

	result := make([]user.User, 0, len(userIDs))
	for _, userID := range userIDs {
		result = append(result, *db.Cache.Users[userID])
	}

	return result, nil
}

func (db *JSONDB) GetNumberOfUsers(ctx context.Context) (int64, error) {
	return int64(len(db.Cache.Users)), nil
}

func (db *JSONDB) DeleteAllUsers(ctx context.Context) error {
	db.Cache.Users = map[string]*user.User{}

	return nil
}

func (db *JSONDB) Close() error {
	err := writeToJSONFile(db.fileName, db.Cache)
	if err != nil {
		return err
	}

	return nil
}
