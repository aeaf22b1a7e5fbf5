package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoprize/prizewheel-go/internal/dependencies/mocks"
	"github.com/expoprize/prizewheel-go/internal/model"
)

func TestPickIndexReturnsQueuedValue(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(3)
	engine := NewEngine(rnd)

	idx, err := engine.PickIndex(5)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestPickIndexRejectsEmptyPool(t *testing.T) {
	engine := NewEngine(mocks.NewMockRandom())

	_, err := engine.PickIndex(0)
	assert.ErrorIs(t, err, model.ErrEmptyPool)

	_, err = engine.PickIndex(-1)
	assert.ErrorIs(t, err, model.ErrEmptyPool)
}

func TestSelectReturnsPoolMember(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(1)
	engine := NewEngine(rnd)

	got, err := Select(engine, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestSelectEmptySlice(t *testing.T) {
	engine := NewEngine(mocks.NewMockRandom())

	_, err := Select(engine, []string{})
	assert.ErrorIs(t, err, model.ErrEmptyPool)
}
