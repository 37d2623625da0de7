// Package dataset owns the session datasets and is the only component
// allowed to append or remove rows.
package dataset

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

// ErrEmptySelection is returned when a duplicate removal is requested
// without selecting any rows. Removal requires an explicit selection; there
// is no silent mutation.
var ErrEmptySelection = errors.New("no rows selected for removal")

// MergeResult reports the outcome of merging a batch.
type MergeResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// IndexedRecord pairs a record with its position in the dataset, so review
// selections can address exact rows.
type IndexedRecord struct {
	Index  int           `json:"index"`
	Record domain.Record `json:"record"`
}

// Store holds the two session datasets (received and issued CFDIs). It is
// injected into every operation that needs them; there are no process-wide
// singletons.
type Store struct {
	mu       sync.RWMutex
	datasets map[domain.Kind]domain.Dataset
}

func NewStore() *Store {
	return &Store{datasets: map[domain.Kind]domain.Dataset{}}
}

// Get returns a copy of the dataset; callers cannot mutate session state
// through it.
func (s *Store) Get(kind domain.Kind) domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds := s.datasets[kind]
	out := make(domain.Dataset, len(ds))
	copy(out, ds)
	return out
}

// Merge appends the batch rows whose UUID is not already present in the
// dataset. Rows with an empty UUID never collide: two stamp-less documents
// are both admitted. Comparison uses the canonical UUID form so case
// differences do not defeat deduplication. Merging the same batch twice is
// a no-op the second time.
func (s *Store) Merge(kind domain.Kind, batch []domain.Record) MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, rec := range s.datasets[kind] {
		if rec.UUID != "" {
			seen[canonicalUUID(rec.UUID)] = struct{}{}
		}
	}

	var result MergeResult
	for _, rec := range batch {
		if rec.UUID != "" {
			key := canonicalUUID(rec.UUID)
			if _, dup := seen[key]; dup {
				result.Skipped++
				continue
			}
			seen[key] = struct{}{}
		}
		s.datasets[kind] = append(s.datasets[kind], rec)
		result.Added++
	}
	return result
}

// SetFlags updates classification flags in place. Keys match the record
// UUID, or the source filename for records without a stamp. Returns the
// number of rows changed.
func (s *Store) SetFlags(kind domain.Kind, updates map[string]bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.datasets[kind]
	changed := 0
	for i := range ds {
		key := ds[i].UUID
		if key == "" {
			key = ds[i].SourceFile
		}
		if included, ok := updates[key]; ok && ds[i].Included != included {
			ds[i].Included = included
			changed++
		}
	}
	return changed
}

// Duplicates returns every row whose UUID occurs more than once, with its
// dataset position, for human review. Empty UUIDs are never reported.
func (s *Store) Duplicates(kind domain.Kind) []IndexedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range s.datasets[kind] {
		if rec.UUID != "" {
			counts[canonicalUUID(rec.UUID)]++
		}
	}

	var dups []IndexedRecord
	for i, rec := range s.datasets[kind] {
		if rec.UUID != "" && counts[canonicalUUID(rec.UUID)] > 1 {
			dups = append(dups, IndexedRecord{Index: i, Record: rec})
		}
	}
	return dups
}

// Remove deletes the rows at the given dataset positions and returns how
// many were removed. An empty selection is rejected with ErrEmptySelection.
func (s *Store) Remove(kind domain.Kind, indices []int) (int, error) {
	if len(indices) == 0 {
		return 0, ErrEmptySelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.datasets[kind]
	drop := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(ds) {
			drop[idx] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0, ErrEmptySelection
	}

	kept := ds[:0:0]
	for i, rec := range ds {
		if _, gone := drop[i]; !gone {
			kept = append(kept, rec)
		}
	}
	s.datasets[kind] = kept
	return len(drop), nil
}

// DropDuplicates removes every row whose UUID was already seen earlier in
// the dataset, keeping the first occurrence. Returns the number removed.
func (s *Store) DropDuplicates(kind domain.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.datasets[kind]
	seen := make(map[string]struct{})
	kept := ds[:0:0]
	removed := 0
	for _, rec := range ds {
		if rec.UUID != "" {
			key := canonicalUUID(rec.UUID)
			if _, dup := seen[key]; dup {
				removed++
				continue
			}
			seen[key] = struct{}{}
		}
		kept = append(kept, rec)
	}
	s.datasets[kind] = kept
	return removed
}

// UUIDs returns the sorted set of non-empty canonical identifiers in the
// dataset.
func (s *Store) UUIDs(kind domain.Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, rec := range s.datasets[kind] {
		if rec.UUID != "" {
			set[canonicalUUID(rec.UUID)] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// canonicalUUID lowercases well-formed identifiers; anything the uuid
// package cannot parse is compared verbatim.
func canonicalUUID(s string) string {
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return s
}
