// Package state persists tracking records in a bbolt KV store, bucketed per
// employee. It is collaborator-grade storage for the web daemon and CLI, not
// a schema; the analytics engine itself never touches disk.
package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/printo/riderpro/cache"
	"github.com/printo/riderpro/types/track"
	bbolt "go.etcd.io/bbolt"
)

const storeDBName = "records.db"

var recordsBucket = []byte("records")

// Store is a record store rooted at a data directory. A writable Store
// holds the bbolt file lock; use one per process.
type Store struct {
	DB     *bbolt.DB
	path   string
	last   *cache.LastKnown
	logger *slog.Logger
}

// Open creates (or opens) the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, storeDBName)
	db, err := bbolt.Open(path, 0660, nil)
	if err != nil {
		return nil, err
	}
	return &Store{
		DB:     db,
		path:   path,
		last:   cache.NewLastKnown(7 * 24 * time.Hour),
		logger: slog.With("store", dir),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// key is chronological per employee: unix nanos, then a tx sequence to
// keep same-instant records distinct.
func key(r track.Record, seq uint64) []byte {
	k := make([]byte, 16)
	binary.BigEndian.PutUint64(k[:8], uint64(r.Time.UnixNano()))
	binary.BigEndian.PutUint64(k[8:], seq)
	return k
}

// Append writes records in one transaction, nested per employee.
func (s *Store) Append(records ...track.Record) error {
	if len(records) == 0 {
		return nil
	}
	err := s.DB.Update(func(tx *bbolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(recordsBucket)
		if err != nil {
			return err
		}
		for _, r := range records {
			eb, err := root.CreateBucketIfNotExists([]byte(r.EmployeeID))
			if err != nil {
				return err
			}
			seq, err := eb.NextSequence()
			if err != nil {
				return err
			}
			encoded, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("json marshal write: %w", err)
			}
			if err := eb.Put(key(r, seq), encoded); err != nil {
				return fmt.Errorf("bbolt put: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, r := range records {
		s.last.Set(r)
	}
	return nil
}

// ScanEmployee returns all stored records for one employee in key order
// (chronological at write time).
func (s *Store) ScanEmployee(employeeID string) ([]track.Record, error) {
	out := []track.Record{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(recordsBucket)
		if root == nil {
			return nil
		}
		eb := root.Bucket([]byte(employeeID))
		if eb == nil {
			return nil
		}
		return eb.ForEach(func(k, v []byte) error {
			var r track.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("json unmarshal read: %w", err)
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

// ScanAll returns every stored record, grouped by employee.
func (s *Store) ScanAll() ([]track.Record, error) {
	out := []track.Record{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(recordsBucket)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(name []byte) error {
			eb := root.Bucket(name)
			return eb.ForEach(func(k, v []byte) error {
				var r track.Record
				if err := json.Unmarshal(v, &r); err != nil {
					return fmt.Errorf("json unmarshal read: %w", err)
				}
				out = append(out, r)
				return nil
			})
		})
	})
	return out, err
}

// Employees lists every employee with stored records.
func (s *Store) Employees() ([]string, error) {
	out := []string{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(recordsBucket)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(name []byte) error {
			out = append(out, string(name))
			return nil
		})
	})
	return out, err
}

// LastKnown returns the most recently appended record for an employee, if
// any is still within the TTL horizon.
func (s *Store) LastKnown(employeeID string) (track.Record, bool) {
	return s.last.Get(employeeID)
}

// LastKnownAll returns the last record per reporting employee.
func (s *Store) LastKnownAll() []track.Record {
	return s.last.All()
}
