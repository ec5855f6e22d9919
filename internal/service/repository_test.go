package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfulu/companion/internal/model"
	"github.com/mindfulu/companion/internal/store"
	"github.com/mindfulu/companion/pkg/logger"
)

func newTestRepository(st store.Store) *Repository {
	return NewRepository(st, logger.NewNop())
}

func seedConversation(st store.Store, firstMessage string) *model.Conversation {
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage(firstMessage))
	st.Save(conv)
	return conv
}

func TestInitializeHydratesFromStore(t *testing.T) {
	st := store.NewMemory()
	saved := seedConversation(st, "hello")
	st.SetCurrentID(saved.ID)

	repo := newTestRepository(st)
	assert.False(t, repo.Initialized())

	repo.Initialize()
	assert.True(t, repo.Initialized())

	require.Len(t, repo.List(), 1)
	current := repo.Current()
	require.NotNil(t, current)
	assert.Equal(t, saved.ID, current.ID)
}

func TestInitializeDanglingPointerYieldsNoCurrent(t *testing.T) {
	st := store.NewMemory()
	seedConversation(st, "hello")
	st.SetCurrentID("no-such-conversation")

	repo := newTestRepository(st)
	repo.Initialize()

	assert.Nil(t, repo.Current())
}

func TestInitializeRunsOnce(t *testing.T) {
	st := store.NewMemory()
	seedConversation(st, "hello")

	repo := newTestRepository(st)
	repo.Initialize()
	seedConversation(st, "added after hydration")
	repo.Initialize()

	assert.Len(t, repo.List(), 1, "second Initialize must not re-hydrate")
}

func TestCreateBecomesCurrentWithoutDurableBody(t *testing.T) {
	st := store.NewMemory()
	repo := newTestRepository(st)
	repo.Initialize()

	conv := repo.Create()

	current := repo.Current()
	require.NotNil(t, current)
	assert.Equal(t, conv.ID, current.ID)
	assert.Equal(t, conv.ID, st.CurrentID(), "pointer is persisted on create")
	assert.Empty(t, st.LoadAll(), "empty conversation body is not persisted")
}

func TestSelectIsIdempotent(t *testing.T) {
	st := store.NewMemory()
	saved := seedConversation(st, "hello")

	repo := newTestRepository(st)
	repo.Initialize()

	first, err := repo.Select(saved.ID)
	require.NoError(t, err)
	second, err := repo.Select(saved.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, saved.ID, st.CurrentID())
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestSelectMissingReturnsNotFound(t *testing.T) {
	repo := newTestRepository(store.NewMemory())
	repo.Initialize()

	_, err := repo.Select("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertConvergesMemoryAndStore(t *testing.T) {
	st := store.NewMemory()
	repo := newTestRepository(st)
	repo.Initialize()

	conv := repo.Create()
	conv.Append(model.NewUserMessage("hello"))
	repo.Upsert(conv)

	inMemory, err := repo.Get(conv.ID)
	require.NoError(t, err)
	stored := st.LoadAll()
	require.Len(t, stored, 1)

	assert.Equal(t, inMemory.ID, stored[0].ID)
	assert.Len(t, inMemory.Messages, 1)
	assert.Len(t, stored[0].Messages, 1)
}

func TestRemoveCurrentClearsPointer(t *testing.T) {
	st := store.NewMemory()
	saved := seedConversation(st, "hello")
	st.SetCurrentID(saved.ID)

	repo := newTestRepository(st)
	repo.Initialize()
	require.NotNil(t, repo.Current())

	repo.Remove(saved.ID)

	assert.Nil(t, repo.Current())
	assert.Empty(t, st.CurrentID())
	assert.Empty(t, st.LoadAll())

	// A fresh hydration resolves no current conversation.
	repo2 := newTestRepository(st)
	repo2.Initialize()
	assert.Nil(t, repo2.Current())
}

func TestRemoveOtherKeepsCurrent(t *testing.T) {
	st := store.NewMemory()
	a := seedConversation(st, "a")
	b := seedConversation(st, "b")
	st.SetCurrentID(a.ID)

	repo := newTestRepository(st)
	repo.Initialize()

	repo.Remove(b.ID)

	current := repo.Current()
	require.NotNil(t, current)
	assert.Equal(t, a.ID, current.ID)
	assert.Equal(t, a.ID, st.CurrentID())
}

func TestClearCurrent(t *testing.T) {
	st := store.NewMemory()
	saved := seedConversation(st, "hello")
	st.SetCurrentID(saved.ID)

	repo := newTestRepository(st)
	repo.Initialize()
	repo.ClearCurrent()

	assert.Nil(t, repo.Current())
	assert.Empty(t, st.CurrentID())
	assert.Len(t, st.LoadAll(), 1, "clearing selection keeps history")
}
