package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

func rec(uuid, file string) domain.Record {
	return domain.Record{UUID: uuid, SourceFile: file, Included: true}
}

func TestMergeIdempotent(t *testing.T) {
	store := NewStore()
	batch := []domain.Record{
		rec("11111111-1111-1111-1111-111111111111", "a.xml"),
		rec("22222222-2222-2222-2222-222222222222", "b.xml"),
	}

	first := store.Merge(domain.KindReceived, batch)
	assert.Equal(t, MergeResult{Added: 2}, first)

	second := store.Merge(domain.KindReceived, batch)
	assert.Equal(t, MergeResult{Skipped: 2}, second)
	assert.Len(t, store.Get(domain.KindReceived), 2)
}

func TestMergeOrderIndependent(t *testing.T) {
	a := []domain.Record{
		rec("11111111-1111-1111-1111-111111111111", "a.xml"),
		rec("22222222-2222-2222-2222-222222222222", "b.xml"),
	}
	b := []domain.Record{
		rec("22222222-2222-2222-2222-222222222222", "b2.xml"),
		rec("33333333-3333-3333-3333-333333333333", "c.xml"),
	}

	ab := NewStore()
	ab.Merge(domain.KindReceived, a)
	ab.Merge(domain.KindReceived, b)

	ba := NewStore()
	ba.Merge(domain.KindReceived, b)
	ba.Merge(domain.KindReceived, a)

	assert.Equal(t, ab.UUIDs(domain.KindReceived), ba.UUIDs(domain.KindReceived))
}

func TestMergeCaseInsensitiveUUID(t *testing.T) {
	store := NewStore()
	store.Merge(domain.KindReceived, []domain.Record{rec("AD662D33-6934-459C-A128-BDF0393F0F44", "a.xml")})
	result := store.Merge(domain.KindReceived, []domain.Record{rec("ad662d33-6934-459c-a128-bdf0393f0f44", "b.xml")})

	assert.Equal(t, MergeResult{Skipped: 1}, result)
}

func TestMergeEmptyUUIDsNeverCollide(t *testing.T) {
	store := NewStore()
	result := store.Merge(domain.KindReceived, []domain.Record{
		rec("", "a.xml"),
		rec("", "b.xml"),
	})
	assert.Equal(t, MergeResult{Added: 2}, result)

	again := store.Merge(domain.KindReceived, []domain.Record{rec("", "c.xml")})
	assert.Equal(t, MergeResult{Added: 1}, again)
}

func TestMergeKindsAreIsolated(t *testing.T) {
	store := NewStore()
	store.Merge(domain.KindReceived, []domain.Record{rec("11111111-1111-1111-1111-111111111111", "a.xml")})
	result := store.Merge(domain.KindIssued, []domain.Record{rec("11111111-1111-1111-1111-111111111111", "a.xml")})

	assert.Equal(t, MergeResult{Added: 1}, result)
}

func TestSetFlags(t *testing.T) {
	store := NewStore()
	store.Merge(domain.KindReceived, []domain.Record{
		rec("11111111-1111-1111-1111-111111111111", "a.xml"),
		rec("", "sin-timbre.xml"),
	})

	changed := store.SetFlags(domain.KindReceived, map[string]bool{
		"11111111-1111-1111-1111-111111111111": false,
		"sin-timbre.xml":                       false,
		"desconocido.xml":                      false,
	})
	assert.Equal(t, 2, changed)

	ds := store.Get(domain.KindReceived)
	assert.False(t, ds[0].Included)
	assert.False(t, ds[1].Included)
}

func TestDuplicatesAuditAndRemove(t *testing.T) {
	store := NewStore()
	// Duplicates can predate this tool (e.g. a checkpoint written before
	// merge-filtering existed), so seed the state directly.
	store.datasets[domain.KindReceived] = domain.Dataset{
		rec("11111111-1111-1111-1111-111111111111", "a.xml"),
		rec("11111111-1111-1111-1111-111111111111", "a-copia.xml"),
		rec("22222222-2222-2222-2222-222222222222", "b.xml"),
		rec("", "x.xml"),
		rec("", "y.xml"),
	}

	dups := store.Duplicates(domain.KindReceived)
	require.Len(t, dups, 2)
	assert.Equal(t, 0, dups[0].Index)
	assert.Equal(t, 1, dups[1].Index)

	_, err := store.Remove(domain.KindReceived, nil)
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Len(t, store.Get(domain.KindReceived), 5)

	removed, err := store.Remove(domain.KindReceived, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, store.Get(domain.KindReceived), 4)
}

func TestDropDuplicatesKeepsFirst(t *testing.T) {
	store := NewStore()
	store.datasets[domain.KindReceived] = domain.Dataset{
		rec("11111111-1111-1111-1111-111111111111", "a.xml"),
		rec("11111111-1111-1111-1111-111111111111", "a-copia.xml"),
		rec("22222222-2222-2222-2222-222222222222", "b.xml"),
		rec("", "x.xml"),
		rec("", "y.xml"),
	}

	removed := store.DropDuplicates(domain.KindReceived)
	assert.Equal(t, 1, removed)

	ds := store.Get(domain.KindReceived)
	require.Len(t, ds, 4)
	assert.Equal(t, "a.xml", ds[0].SourceFile)
}
