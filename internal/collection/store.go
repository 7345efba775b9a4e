// Package collection holds the live variant collection of one product draft.
//
// Every mutation builds a new Snapshot and publishes it atomically, so a
// reader holding a Snapshot never observes a partially applied change.
// Snapshots must be treated as read-only.
package collection

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"storefront-variants/internal/domain"
)

// Snapshot is an immutable view of the collection.
type Snapshot struct {
	Revision  uint64
	Variants  []domain.Variant
	Selection map[string]struct{}
}

func (s *Snapshot) IsSelected(id string) bool {
	_, ok := s.Selection[id]
	return ok
}

// SelectedIDs returns the selected ids in collection order.
func (s *Snapshot) SelectedIDs() []string {
	ids := make([]string, 0, len(s.Selection))
	for _, v := range s.Variants {
		if s.IsSelected(v.ID) {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

func (s *Snapshot) Find(id string) (domain.Variant, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Variants[i].Clone(), true
	}
	return domain.Variant{}, false
}

func (s *Snapshot) indexOf(id string) int {
	for i := range s.Variants {
		if s.Variants[i].ID == id {
			return i
		}
	}
	return -1
}

// View returns the variants matching f without touching the snapshot.
func (s *Snapshot) View(f domain.VariantFilter) []domain.Variant {
	return Filter(s.Variants, f)
}

// Store owns the current snapshot. Writers are serialised; readers are lock-free.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	newID   func() string
}

func NewStore() *Store {
	s := &Store{newID: uuid.NewString}
	s.current.Store(&Snapshot{Variants: []domain.Variant{}, Selection: map[string]struct{}{}})
	return s
}

// WithIDGenerator replaces the identity source used by Duplicate, mainly for tests.
func (s *Store) WithIDGenerator(fn func() string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = fn
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// update copies the current snapshot, lets fn edit the copy and publishes it.
// fn may replace elements of next.Variants but must not write into the
// slices or maps they share with the previous snapshot.
func (s *Store) update(fn func(next *Snapshot) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	next := &Snapshot{
		Revision:  prev.Revision + 1,
		Variants:  append(make([]domain.Variant, 0, len(prev.Variants)), prev.Variants...),
		Selection: make(map[string]struct{}, len(prev.Selection)),
	}
	for id := range prev.Selection {
		next.Selection[id] = struct{}{}
	}

	if err := fn(next); err != nil {
		return prev, err
	}
	next.pruneSelection()
	s.current.Store(next)
	return next, nil
}

func (s *Snapshot) pruneSelection() {
	if len(s.Selection) == 0 {
		return
	}
	present := make(map[string]struct{}, len(s.Variants))
	for _, v := range s.Variants {
		present[v.ID] = struct{}{}
	}
	for id := range s.Selection {
		if _, ok := present[id]; !ok {
			delete(s.Selection, id)
		}
	}
}

// Replace installs a reconciled variant list. Selected ids that are no longer
// present are dropped.
func (s *Store) Replace(variants []domain.Variant) *Snapshot {
	snap, _ := s.update(func(next *Snapshot) error {
		next.Variants = make([]domain.Variant, len(variants))
		for i, v := range variants {
			next.Variants[i] = v.Clone()
		}
		return nil
	})
	return snap
}

func (s *Store) ToggleSelection(id string) (*Snapshot, error) {
	return s.update(func(next *Snapshot) error {
		if next.indexOf(id) < 0 {
			return domain.ErrVariantNotFound
		}
		if next.IsSelected(id) {
			delete(next.Selection, id)
		} else {
			next.Selection[id] = struct{}{}
		}
		return nil
	})
}

// ToggleSelectAll selects exactly the variants visible under f, or clears the
// whole selection when every visible variant is already selected.
func (s *Store) ToggleSelectAll(f domain.VariantFilter) *Snapshot {
	snap, _ := s.update(func(next *Snapshot) error {
		visible := Filter(next.Variants, f)
		allSelected := len(visible) > 0
		for _, v := range visible {
			if !next.IsSelected(v.ID) {
				allSelected = false
				break
			}
		}

		next.Selection = make(map[string]struct{}, len(visible))
		if allSelected {
			return nil
		}
		for _, v := range visible {
			next.Selection[v.ID] = struct{}{}
		}
		return nil
	})
	return snap
}

func (s *Store) ClearSelection() *Snapshot {
	snap, _ := s.update(func(next *Snapshot) error {
		next.Selection = map[string]struct{}{}
		return nil
	})
	return snap
}

// BulkEdit applies patch to every selected variant and returns how many were changed.
func (s *Store) BulkEdit(patch domain.VariantPatch) (*Snapshot, int, error) {
	if patch.Inventory != nil && *patch.Inventory < 0 {
		return s.Snapshot(), 0, domain.ErrNegativeInventory
	}
	if patch.IsEmpty() {
		return s.Snapshot(), 0, nil
	}
	changed := 0
	snap, err := s.update(func(next *Snapshot) error {
		for i := range next.Variants {
			if !next.IsSelected(next.Variants[i].ID) {
				continue
			}
			v := next.Variants[i].Clone()
			patch.Apply(&v)
			next.Variants[i] = v
			changed++
		}
		return nil
	})
	return snap, changed, err
}

// SetActive activates or deactivates the selection.
func (s *Store) SetActive(active bool) (*Snapshot, int) {
	snap, n, _ := s.BulkEdit(domain.VariantPatch{Active: &active})
	return snap, n
}

// DeleteSelected removes every selected variant.
func (s *Store) DeleteSelected() (*Snapshot, int) {
	removed := 0
	snap, _ := s.update(func(next *Snapshot) error {
		kept := next.Variants[:0:0]
		for _, v := range next.Variants {
			if next.IsSelected(v.ID) {
				removed++
				continue
			}
			kept = append(kept, v)
		}
		next.Variants = kept
		return nil
	})
	return snap, removed
}

// Duplicate copies a variant under a new identity right after the source.
// The copy keeps the source's tuple, so the next regeneration keeps only
// the first of the two in collection order.
func (s *Store) Duplicate(id string) (*Snapshot, domain.Variant, error) {
	var dup domain.Variant
	snap, err := s.update(func(next *Snapshot) error {
		i := next.indexOf(id)
		if i < 0 {
			return domain.ErrVariantNotFound
		}
		dup = next.Variants[i].Clone()
		dup.ID = s.newID()
		dup.Title += CopyTitleSuffix
		dup.SKU += CopySKUSuffix

		out := make([]domain.Variant, 0, len(next.Variants)+1)
		out = append(out, next.Variants[:i+1]...)
		out = append(out, dup)
		out = append(out, next.Variants[i+1:]...)
		next.Variants = out
		return nil
	})
	return snap, dup, err
}

const (
	CopyTitleSuffix = " (Copy)"
	CopySKUSuffix   = "-COPY"
)

func (s *Store) Delete(id string) (*Snapshot, error) {
	return s.update(func(next *Snapshot) error {
		i := next.indexOf(id)
		if i < 0 {
			return domain.ErrVariantNotFound
		}
		out := make([]domain.Variant, 0, len(next.Variants)-1)
		out = append(out, next.Variants[:i]...)
		out = append(out, next.Variants[i+1:]...)
		next.Variants = out
		return nil
	})
}

// Modify runs fn on a private copy of one variant and stores the result.
func (s *Store) Modify(id string, fn func(v *domain.Variant) error) (*Snapshot, domain.Variant, error) {
	var out domain.Variant
	snap, err := s.update(func(next *Snapshot) error {
		i := next.indexOf(id)
		if i < 0 {
			return domain.ErrVariantNotFound
		}
		v := next.Variants[i].Clone()
		if err := fn(&v); err != nil {
			return err
		}
		next.Variants[i] = v
		out = v.Clone()
		return nil
	})
	return snap, out, err
}
