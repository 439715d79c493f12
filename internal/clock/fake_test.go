package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeAfterFuncFiresOnceDue(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := 0
	c.AfterFunc(400*time.Millisecond, func() { fired++ })

	c.Advance(399 * time.Millisecond)
	require.Equal(t, 0, fired)

	c.Advance(time.Millisecond)
	require.Equal(t, 1, fired)
	require.Equal(t, 0, c.PendingTimers())
}

func TestFakeStoppedTimerNeverFires(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestFakeTickerDeliversTick(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewFake(start)
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	c.Advance(time.Second)
	select {
	case at := <-ticker.C():
		require.Equal(t, start.Add(time.Second), at)
	default:
		t.Fatal("expected a tick")
	}
}
