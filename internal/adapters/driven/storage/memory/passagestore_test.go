package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

func testPassages() []domain.Passage {
	return []domain.Passage{
		{Position: 0, Text: "Nexova offers 24/7 support."},
		{Position: 1, Text: "Orders ship within two days."},
	}
}

func TestPassageStore_Empty(t *testing.T) {
	store := NewPassageStore()

	assert.Empty(t, store.All())
	assert.Equal(t, 0, store.Count())

	_, err := store.Get(0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPassageStore_Replace(t *testing.T) {
	store := NewPassageStore()
	store.Replace(testPassages())

	assert.Equal(t, 2, store.Count())
	assert.Equal(t, testPassages(), store.All())

	p, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Orders ship within two days.", p.Text)

	_, err = store.Get(-1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPassageStore_ReplaceCopiesInput(t *testing.T) {
	store := NewPassageStore()
	input := testPassages()
	store.Replace(input)

	input[0].Text = "mutated"

	p, err := store.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Nexova offers 24/7 support.", p.Text)
}

func TestPassageStore_ReplaceKeepsOldSnapshot(t *testing.T) {
	store := NewPassageStore()
	store.Replace(testPassages())
	snapshot := store.All()

	store.Replace(nil)

	assert.Len(t, snapshot, 2)
	assert.Equal(t, 0, store.Count())
}

func TestPassageStore_ConcurrentReads(t *testing.T) {
	store := NewPassageStore()
	store.Replace(testPassages())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, store.All(), 2)
		}()
	}
	wg.Wait()
}
