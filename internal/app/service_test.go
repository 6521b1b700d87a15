package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/time-travel-tic-tac-toe/internal/domain"
)

// minimal renderer for tests: encode step and history length as bytes
func testRenderer(s Session) []byte {
	return []byte(fmt.Sprintf("step=%d len=%d", s.Game.Step(), s.Game.Len()))
}

func newTestService(t *testing.T) (*Service, *Session) {
	t.Helper()
	s := NewService(WithRenderer(testRenderer))
	sess, err := s.CreateGame()
	require.NoError(t, err)
	return s, sess
}

func TestCreateAndGet(t *testing.T) {
	s, sess := newTestService(t)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.X, sess.Game.NextPlayer())
	assert.Equal(t, 1, sess.Game.Len())
	assert.False(t, sess.Created.IsZero())
	assert.False(t, sess.Updated.IsZero())

	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestCreateGameIDsAreUnique(t *testing.T) {
	s := NewService()
	a, _ := s.CreateGame()
	b, _ := s.CreateGame()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPlaceMarkAppliesAndIgnores(t *testing.T) {
	s, sess := newTestService(t)

	st, err := s.PlaceMark(sess.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.X, st.Game.Current().Board[4])
	assert.Equal(t, domain.O, st.Game.NextPlayer())

	// taken cell is a silent no-op
	st, err = s.PlaceMark(sess.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Game.Len())
	assert.Equal(t, domain.O, st.Game.NextPlayer())
}

func TestPlaceMarkErrors(t *testing.T) {
	s, sess := newTestService(t)

	_, err := s.PlaceMark("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, idx := range []int{-1, 9} {
		_, err = s.PlaceMark(sess.ID, idx)
		assert.ErrorIs(t, err, ErrOutOfRange, "cell %d", idx)
	}
	got, _ := s.Get(sess.ID)
	assert.Equal(t, 1, got.Game.Len())
}

func TestGameOverIsNotAnError(t *testing.T) {
	s, sess := newTestService(t)
	for _, idx := range []int{0, 4, 1, 5, 2} {
		_, err := s.PlaceMark(sess.ID, idx)
		require.NoError(t, err)
	}
	st, err := s.PlaceMark(sess.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 6, st.Game.Len())
	assert.Equal(t, "Winner: X", st.View().Status)
}

func TestJumpToAndBranch(t *testing.T) {
	s, sess := newTestService(t)
	for _, idx := range []int{0, 1, 2, 3} {
		_, err := s.PlaceMark(sess.ID, idx)
		require.NoError(t, err)
	}

	st, err := s.JumpTo(sess.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Game.Step())
	assert.Equal(t, 5, st.Game.Len())
	assert.Equal(t, domain.X, st.Game.NextPlayer())

	st, err = s.PlaceMark(sess.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Game.Len())

	_, err = s.JumpTo(sess.ID, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.JumpTo(sess.ID, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.JumpTo("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleSort(t *testing.T) {
	s, sess := newTestService(t)
	st, err := s.ToggleSort(sess.ID)
	require.NoError(t, err)
	assert.False(t, st.Game.SortAscending())

	st, err = s.ToggleSort(sess.ID)
	require.NoError(t, err)
	assert.True(t, st.Game.SortAscending())

	_, err = s.ToggleSort("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatedAdvances(t *testing.T) {
	s := NewService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	s.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	sess, _ := s.CreateGame()
	st, err := s.PlaceMark(sess.ID, 0)
	require.NoError(t, err)
	assert.True(t, st.Updated.After(sess.Updated))
	assert.Equal(t, sess.Created, st.Created)
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s, sess := newTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ch, unsub, err := s.Subscribe(ctx, sess.ID)
	require.NoError(t, err)
	defer unsub()

	_, err = s.PlaceMark(sess.ID, 0)
	require.NoError(t, err)

	select {
	case b, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		assert.Equal(t, "step=1 len=2", string(b))
	case <-ctx.Done():
		t.Fatalf("timed out waiting for broadcast")
	}
}

func TestSubscribeUnknownSession(t *testing.T) {
	s := NewService()
	_, unsub, err := s.Subscribe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	unsub()
}

func TestDropSlowSubscriber(t *testing.T) {
	s, sess := newTestService(t)

	// Slow subscriber: never read
	slowCh, unsubSlow, err := s.Subscribe(context.Background(), sess.ID)
	require.NoError(t, err)
	defer unsubSlow()

	ctxFast, cancelFast := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFast()
	fastCh, unsubFast, err := s.Subscribe(ctxFast, sess.ID)
	require.NoError(t, err)
	defer unsubFast()

	_, err = s.PlaceMark(sess.ID, 0)
	require.NoError(t, err)
	<-fastCh
	_, err = s.PlaceMark(sess.ID, 4)
	require.NoError(t, err)
	<-fastCh

	// the slow channel holds the first payload and is then closed
	b, ok := <-slowCh
	require.True(t, ok)
	assert.Equal(t, "step=1 len=2", string(b))
	_, ok = <-slowCh
	assert.False(t, ok)
}

func TestEndClosesSubscribers(t *testing.T) {
	s, sess := newTestService(t)
	ch, _, err := s.Subscribe(context.Background(), sess.ID)
	require.NoError(t, err)

	require.NoError(t, s.End(sess.ID))
	_, ok := <-ch
	assert.False(t, ok)

	_, ok = s.Get(sess.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, s.End(sess.ID), ErrNotFound)
	_, err = s.PlaceMark(sess.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	s, sess := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, sess.ID)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
