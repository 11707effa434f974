// Package cache persists resume points for interrupted searches so a modulus
// can be restarted from the last reported iteration instead of from 1.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

const fileName = "checkpoints.json"

// Checkpoint is the stored resume point for one modulus.
type Checkpoint struct {
	Modulus   string    `json:"modulus"`
	Iteration string    `json:"iteration"`
	Updated   time.Time `json:"updated"`
}

type DB struct {
	// modulus hash -> checkpoint
	Entries map[string]Checkpoint `json:"entries"`
}

// Dir returns override when set, otherwise the per-user cache directory.
func Dir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "diffsquare"), nil
}

// Key is the lookup key for n.
func Key(n *big.Int) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(n.String()))
}

func Load(dir string) (DB, error) {
	var db DB
	f, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return DB{Entries: map[string]Checkpoint{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Checkpoint{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Checkpoint{}
	}
	return db, nil
}

func Save(dir string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(filepath.Join(dir, fileName), b, 0o644)
}

// Lookup returns the stored iteration for n, or nil.
func (db DB) Lookup(n *big.Int) *big.Int {
	cp, ok := db.Entries[Key(n)]
	if !ok || cp.Modulus != n.String() {
		return nil
	}
	it, ok := new(big.Int).SetString(cp.Iteration, 10)
	if !ok || it.Sign() <= 0 {
		return nil
	}
	return it
}

// Store records iteration as the resume point for n.
func (db *DB) Store(n, iteration *big.Int) {
	if db.Entries == nil {
		db.Entries = map[string]Checkpoint{}
	}
	db.Entries[Key(n)] = Checkpoint{Modulus: n.String(), Iteration: iteration.String(), Updated: time.Now().UTC()}
}

// Forget drops the resume point for n.
func (db *DB) Forget(n *big.Int) {
	delete(db.Entries, Key(n))
}
