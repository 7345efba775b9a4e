package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := New(20 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 1)

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	d := New(time.Hour)
	var ran bool

	d.Trigger(func() { ran = true })
	require.True(t, d.Pending())

	assert.True(t, d.Flush())
	assert.True(t, ran)
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestDebouncer_Shutdown(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Shutdown()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	d.Trigger(func() { calls.Add(1) })
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Pending())
}
