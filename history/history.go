// Package history keeps a record of finished sleep timer runs in a bbolt
// database.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCanceled  Outcome = "canceled"
)

// Run is one countdown from start to completion or cancel.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Selection string    `json:"selection"`
	Seconds   int       `json:"seconds"`
	Outcome   Outcome   `json:"outcome"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// NewRun starts a record for a countdown beginning now.
func NewRun(selection string, seconds int) Run {
	return Run{
		ID:        uuid.New(),
		Selection: selection,
		Seconds:   seconds,
		StartedAt: time.Now(),
	}
}

// Finish stamps the run with its outcome.
func (r Run) Finish(outcome Outcome) Run {
	r.Outcome = outcome
	r.EndedAt = time.Now()
	return r
}

type Store struct {
	db *bbolt.DB
}

// DefaultPath returns history.db next to the settings file.
func DefaultPath(settingsPath string) string {
	return filepath.Join(filepath.Dir(settingsPath), "history.db")
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// itob returns an 8-byte big endian representation of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Record appends a finished run.
func (s *Store) Record(r Run) error {
	if r.Outcome == "" {
		return errors.New("record unfinished run")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(runsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		buf, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal run: %s", err)
		}
		return b.Put(itob(seq), buf)
	})
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	if n <= 0 {
		return nil, nil
	}
	runs := make([]Run, 0, n)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < n; k, v = c.Prev() {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal run: %s", err)
			}
			runs = append(runs, r)
		}
		return nil
	})
	return runs, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
