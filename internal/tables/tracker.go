package tables

import (
	"log"
	"sort"

	"github.com/Fidelio1234/qrcode-finale/internal/store"
)

// Tracker maintains the set of currently occupied table identifiers. It is
// kept in lockstep with the order ledger (place order occupies, close table
// releases); since the two share no transaction the set can drift, which the
// Reconcile pass corrects.
type Tracker struct {
	store *store.Store
}

// NewTracker creates a tracker over the given store.
func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// ListOccupied returns the occupied table identifiers.
func (t *Tracker) ListOccupied() []string {
	var occupied []string
	t.store.Load(store.SlotTables, &occupied)
	if occupied == nil {
		occupied = []string{}
	}
	return occupied
}

// Occupy adds a table to the occupied set. Occupying an already-occupied
// table is a logged no-op.
func (t *Tracker) Occupy(table string) {
	occupied := t.ListOccupied()
	for _, o := range occupied {
		if o == table {
			log.Printf("tables: table %s already occupied", table)
			return
		}
	}
	occupied = append(occupied, table)
	t.store.Save(store.SlotTables, occupied)
	log.Printf("tables: table %s occupied, total=%d", table, len(occupied))
}

// Release removes a table from the occupied set, reporting whether a removal
// actually happened. Releasing an unoccupied table is a no-op.
func (t *Tracker) Release(table string) bool {
	occupied := t.ListOccupied()
	kept := occupied[:0]
	for _, o := range occupied {
		if o != table {
			kept = append(kept, o)
		}
	}
	released := len(kept) < len(occupied)
	t.store.Save(store.SlotTables, kept)
	log.Printf("tables: table %s released (%d -> %d occupied)", table, len(occupied), len(kept))
	return released
}

// Reconcile replaces the occupied set with the tables derived from the
// ledger's non-closed orders, reporting whether the set changed. This is the
// corrective pass for drift between tracker and ledger.
func (t *Tracker) Reconcile(active []string) bool {
	seen := make(map[string]bool, len(active))
	derived := make([]string, 0, len(active))
	for _, table := range active {
		if !seen[table] {
			seen[table] = true
			derived = append(derived, table)
		}
	}
	sort.Strings(derived)

	current := t.ListOccupied()
	sort.Strings(current)
	if equal(current, derived) {
		return false
	}

	t.store.Save(store.SlotTables, derived)
	log.Printf("tables: occupancy reconciled (%d -> %d tables)", len(current), len(derived))
	return true
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
