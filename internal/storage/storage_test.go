package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/models"
)

func TestReplaceByKey(t *testing.T) {
	base := []models.RawTodo{{Name: "Buy Milk!"}, {Name: "Walk dog"}}

	t.Run("single match is replaced and moved to the end", func(t *testing.T) {
		got, outcome, err := ReplaceByKey(base, "buymilk", models.RawTodo{Name: "Buy oat milk"})
		require.NoError(t, err)
		assert.Equal(t, Replaced, outcome)
		assert.Equal(t, []models.RawTodo{{Name: "Walk dog"}, {Name: "Buy oat milk"}}, got)
	})

	t.Run("unsanitized key is canonicalized", func(t *testing.T) {
		got, outcome, err := ReplaceByKey(base, "Buy Milk", models.RawTodo{Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, Replaced, outcome)
		assert.Len(t, got, 2)
	})

	t.Run("no match appends", func(t *testing.T) {
		got, outcome, err := ReplaceByKey(base, "nothing", models.RawTodo{Name: "New"})
		require.NoError(t, err)
		assert.Equal(t, Appended, outcome)
		assert.Len(t, got, 3)
	})

	t.Run("colliding keys are rejected", func(t *testing.T) {
		colliding := []models.RawTodo{{Name: "Buy milk"}, {Name: "buy milk!"}, {Name: "BUY MILK?"}}
		got, _, err := ReplaceByKey(colliding, "buymilk", models.RawTodo{Name: "x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAmbiguousKey))
		assert.Equal(t, colliding, got)
	})
}

func TestRemoveByName(t *testing.T) {
	base := []models.RawTodo{{Name: "Buy Milk!"}, {Name: "Walk dog"}}

	got, outcome := RemoveByName(base, "Buy Milk!")
	assert.Equal(t, Removed, outcome)
	assert.Equal(t, []models.RawTodo{{Name: "Walk dog"}}, got)

	got, outcome = RemoveByName(base, "buy milk")
	assert.Equal(t, NotFound, outcome)
	assert.Equal(t, base, got)
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "replaced", Replaced.String())
	assert.Equal(t, "appended", Appended.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "not_found", NotFound.String())
}
