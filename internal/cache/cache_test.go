package cache

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	// initial load should return empty DB and error
	db, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for missing cache file")
	}
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	n := big.NewInt(5959)
	db.Store(n, big.NewInt(1000001))
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "checkpoints.json")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	db2, err := Load(dir)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	got := db2.Lookup(n)
	if got == nil || got.Int64() != 1000001 {
		t.Fatalf("unexpected checkpoint: %v", got)
	}
}

func TestLookup_Missing(t *testing.T) {
	var db DB
	if got := db.Lookup(big.NewInt(15)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestLookup_RejectsMismatchedModulus(t *testing.T) {
	n := big.NewInt(5959)
	db := DB{Entries: map[string]Checkpoint{
		Key(n): {Modulus: "1234", Iteration: "99"},
	}}
	if got := db.Lookup(n); got != nil {
		t.Fatalf("colliding entry must be ignored, got %v", got)
	}
}

func TestStoreForget(t *testing.T) {
	var db DB
	n := big.NewInt(21)
	db.Store(n, big.NewInt(7))
	db.Store(n, big.NewInt(11))
	if got := db.Lookup(n); got == nil || got.Int64() != 11 {
		t.Fatalf("expected latest checkpoint 11, got %v", got)
	}
	db.Forget(n)
	if got := db.Lookup(n); got != nil {
		t.Fatalf("expected checkpoint removed, got %v", got)
	}
}

func TestKey_Stable(t *testing.T) {
	a, _ := new(big.Int).SetString("2761929023323646159", 10)
	b, _ := new(big.Int).SetString("2761929023323646159", 10)
	if Key(a) != Key(b) || len(Key(a)) != 16 {
		t.Fatalf("unexpected keys %q %q", Key(a), Key(b))
	}
	if Key(a) == Key(big.NewInt(15)) {
		t.Fatal("distinct moduli should hash apart")
	}
}

func TestDir(t *testing.T) {
	if d, _ := Dir("/tmp/x"); d != "/tmp/x" {
		t.Fatalf("override ignored: %q", d)
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	d, err := Dir("")
	if err != nil || filepath.Base(d) != "diffsquare" {
		t.Fatalf("unexpected dir %q (%v)", d, err)
	}
}
