package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "", "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "3", flag.DefValue)
}

func TestSearchCmd_Text(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "", "search", "--top-k", "5", "pricing")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.knowledge.lastTopK)
	assert.Contains(t, out, "[1] passage #2 (score 2)")
	assert.Contains(t, out, "Pricing starts at $10.")
}

func TestSearchCmd_RejectsNonPositiveTopK(t *testing.T) {
	for _, value := range []string{"0", "-1"} {
		t.Run(value, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			_, err := executeCommand(t, "", "search", "--top-k="+value, "pricing")

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, ts.knowledge.lastTopK)
		})
	}
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.knowledge.results = nil

	out, err := executeCommand(t, "", "search", "zebra")

	require.NoError(t, err)
	assert.Contains(t, out, "No relevant passages.")
}

func TestSearchCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "", "search", "--json", "pricing")

	require.NoError(t, err)
	var decoded []domain.ScoredPassage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 2, decoded[0].Position)
	assert.Equal(t, 2, decoded[0].Score)
}

func TestSearchCmd_JSONEmptyIsArray(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.knowledge.results = nil

	out, err := executeCommand(t, "", "search", "--json", "zebra")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}
