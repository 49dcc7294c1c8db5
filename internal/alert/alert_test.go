package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_ShowReplaces(t *testing.T) {
	c := NewChannel()
	defer c.Close()

	c.Show(KindWarning, "first", time.Minute)
	c.Show(KindSuccess, "second", time.Minute)

	a, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "second", a.Message)
	assert.Equal(t, KindSuccess, a.Kind)
}

func TestChannel_Expires(t *testing.T) {
	c := NewChannel()

	c.Show(KindSuccess, "done!", 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestChannel_OldTimerDoesNotClearNewAlert(t *testing.T) {
	c := NewChannel()
	defer c.Close()

	c.Show(KindWarning, "old", 20*time.Millisecond)
	c.Show(KindWarning, "new", time.Minute)

	time.Sleep(60 * time.Millisecond)

	a, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "new", a.Message)
}

func TestChannel_Dismiss(t *testing.T) {
	c := NewChannel()
	var events []bool
	c.OnChange(func(_ Alert, visible bool) { events = append(events, visible) })

	c.Show(KindWarning, "too far", time.Minute)
	c.Dismiss()

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, events)
}
