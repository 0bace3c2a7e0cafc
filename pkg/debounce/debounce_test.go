package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := New(30*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}

	// Allow any stray timer to fire.
	time.Sleep(80 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d; want 1", n)
	}
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	d.Trigger()
	time.Sleep(60 * time.Millisecond)

	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d; want 2", n)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(60 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("calls after Stop = %d; want 0", n)
	}
}

func TestDebouncer_StaleTimerIsIgnored(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Hour, func() { calls.Add(1) })

	// A first timer fires while a second Trigger re-arms the debouncer.
	d.Trigger()
	d.mu.Lock()
	stale := d.gen
	d.mu.Unlock()
	d.Trigger()

	d.fire(stale)
	if n := calls.Load(); n != 0 {
		t.Fatalf("stale timer ran fn %d times", n)
	}

	d.mu.Lock()
	latest := d.gen
	d.mu.Unlock()
	d.fire(latest)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d; want 1", n)
	}
	d.Stop()
}
