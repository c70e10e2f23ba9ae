package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplate/preplate/internal/models"
)

func openTestLedger(t *testing.T, path string) *Ledger {
	t.Helper()
	led, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func TestVotedSet(t *testing.T) {
	led := openTestLedger(t, filepath.Join(t.TempDir(), "ledger.db"))

	voted, err := led.HasVoted("item-1")
	require.NoError(t, err)
	assert.False(t, voted)

	require.NoError(t, led.MarkVoted("item-1"))
	require.NoError(t, led.MarkVoted("item-1")) // marking twice is harmless

	voted, err = led.HasVoted("item-1")
	require.NoError(t, err)
	assert.True(t, voted)

	require.NoError(t, led.MarkVoted("item-2"))
	ids, err := led.VotedItems()
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2"}, ids)
}

func TestVotedSetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.MarkVoted("item-1"))
	require.NoError(t, led.Close())

	reopened := openTestLedger(t, path)
	voted, err := reopened.HasVoted("item-1")
	require.NoError(t, err)
	assert.True(t, voted, "voted set must survive a restart")
}

func TestProfileCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	led := openTestLedger(t, path)

	_, ok, err := led.LoadProfile()
	require.NoError(t, err)
	assert.False(t, ok)

	identity := models.Identity{Name: "Asha", StudentID: "STU11111", Email: "asha@campus.edu"}
	require.NoError(t, led.SaveProfile(identity))

	got, ok, err := led.LoadProfile()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	// saving again overwrites rather than duplicating
	identity.Email = "asha.new@campus.edu"
	require.NoError(t, led.SaveProfile(identity))

	got, ok, err = led.LoadProfile()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}
