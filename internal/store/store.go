package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Slot names used by the application.
const (
	SlotOrders = "orders"
	SlotMenu   = "menu"
	SlotTables = "occupied_tables"
)

// Store persists JSON collections to named slots on disk. It has no locking
// and no transactions: two concurrent writers to the same slot can race and
// silently drop one write. That limitation is accepted and documented rather
// than engineered around.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

// EnsureSlots creates any missing slot files with an empty collection.
func (s *Store) EnsureSlots(slots ...string) {
	for _, slot := range slots {
		if _, err := os.Stat(s.path(slot)); os.IsNotExist(err) {
			s.reset(slot)
		}
	}
}

// Load reads a slot into v. A missing, unreadable or corrupt slot is reset to
// an empty collection and v is left holding that empty collection; parse
// errors never propagate to the caller.
func (s *Store) Load(slot string, v any) {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("store: error reading slot %s: %v", slot, err)
		}
		s.reset(slot)
		_ = json.Unmarshal([]byte("[]"), v)
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("store: corrupt slot %s, resetting: %v", slot, err)
		s.reset(slot)
		_ = json.Unmarshal([]byte("[]"), v)
	}
}

// Save writes v to a slot, reporting success. Failures are logged, not
// returned as errors, so callers can degrade the way the API contract expects.
func (s *Store) Save(slot string, v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("store: error encoding slot %s: %v", slot, err)
		return false
	}
	if err := os.WriteFile(s.path(slot), data, 0o644); err != nil {
		log.Printf("store: error writing slot %s: %v", slot, err)
		return false
	}
	return true
}

func (s *Store) reset(slot string) {
	if err := os.WriteFile(s.path(slot), []byte("[]"), 0o644); err != nil {
		log.Printf("store: error resetting slot %s: %v", slot, err)
	}
}
