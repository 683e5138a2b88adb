package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/snaptext/snaptext/pkg/logger"
	"github.com/snaptext/snaptext/pkg/models"
)

// ErrStorage reports an unavailable or corrupt persistence layer. Fatal to
// the operation it occurs in only; callers are expected to keep going.
var ErrStorage = errors.New("history storage unavailable")

// DefaultLimit caps the number of persisted records. Oldest records are
// evicted first once the limit is exceeded.
const DefaultLimit = 100

// The whole collection lives under one key, read-modify-written as a unit.
var collectionKey = []byte("history")

// Store owns the persisted history collection. All access goes through its
// operations; the mutex serializes read-modify-write so the record cap holds
// even with concurrent writers.
type Store struct {
	db     *badger.DB
	logger *logger.Logger

	mu     sync.Mutex
	limit  int
	lastID int64
}

type Option func(*Store)

func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// Open opens (or creates) the store at dir. An empty dir opens an in-memory
// store, used by tests.
func Open(dir string, log *logger.Logger, options ...Option) (*Store, error) {
	badgerOpts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true)
	if dir == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s := &Store{
		db:     db,
		logger: log,
		limit:  DefaultLimit,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends a record with a fresh id and the current timestamp, evicting
// the oldest records once the collection exceeds the limit.
func (s *Store) Save(imageDataURL, text string) (models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.HistoryRecord{}, err
	}

	now := time.Now().UTC()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	record := models.HistoryRecord{
		ID:          id,
		ImageURL:    imageDataURL,
		TextContent: text,
		CreatedAt:   now.Format(time.RFC3339Nano),
	}

	records = append(records, record)
	if len(records) > s.limit {
		records = records[len(records)-s.limit:]
	}

	if err := s.persist(records); err != nil {
		return models.HistoryRecord{}, err
	}

	s.logger.Debug("Saved history record %d (%d stored)", record.ID, len(records))
	return record, nil
}

// List returns all records sorted newest first. The sort is a read-time view,
// not a storage invariant.
func (s *Store) List() ([]models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].CreatedTime(), records[j].CreatedTime()
		if ti.Equal(tj) {
			return records[i].ID > records[j].ID
		}
		return ti.After(tj)
	})

	return records, nil
}

// Delete removes the record with the given id. Idempotent: deleting an id
// that is not present still succeeds.
func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if err := s.persist(kept); err != nil {
		return false, err
	}

	return true, nil
}

// Clear removes all records.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(collectionKey)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *Store) load() ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(collectionKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &records)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return records, nil
}

func (s *Store) persist(records []models.HistoryRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(collectionKey, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
