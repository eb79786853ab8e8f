package api

import (
	"sync"
	"testing"

	"jarch/internal/entityconfig"
	"jarch/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_DraftsAreCopies(t *testing.T) {
	s := NewStorage(reference.Default())
	d := s.CreateDraft(Draft{Name: "a", EntityConfig: entityconfig.Document{Entities: []entityconfig.Entity{{Name: "A"}}}})

	d.EntityConfig.Entities[0].Name = "mutated"
	got, err := s.GetDraft(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.EntityConfig.Entities[0].Name)
}

func TestStorage_UpdateDraftVersioning(t *testing.T) {
	s := NewStorage(reference.Default())
	d := s.CreateDraft(Draft{Name: "a"})

	out, err := s.UpdateDraft(d.ID, 1, func(nd *Draft) {
		nd.Name = "b"
		nd.Version = 100 // служебное поле игнорируется
		nd.ID = "other"
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Version)
	assert.Equal(t, d.ID, out.ID)
	assert.Equal(t, "b", out.Name)

	cur, err := s.UpdateDraft(d.ID, 1, func(*Draft) {})
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(2), cur.Version)

	_, err = s.UpdateDraft("missing", 1, func(*Draft) {})
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, s.DeleteDraft("missing"), ErrDraftNotFound)
}

// Из N одновременных обновлений одной версии проходит ровно одно.
func TestStorage_ConcurrentUpdates(t *testing.T) {
	s := NewStorage(reference.Default())
	d := s.CreateDraft(Draft{Name: "a"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.UpdateDraft(d.ID, 1, func(*Draft) {}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	ids := map[string]bool{}
	for i := 0; i < 100; i++ {
		ids[s.CreateDraft(Draft{}).ID] = true
	}
	assert.Len(t, ids, 100)
	assert.Len(t, s.ListDrafts(), 101)
}
