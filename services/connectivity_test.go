package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type errBox struct{ err error }

type fakePinger struct {
	err atomic.Value // errBox; zero err acts as the nil sentinel
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if v := p.err.Load(); v != nil {
		return v.(errBox).err
	}
	return nil
}

func (p *fakePinger) setErr(err error) {
	p.err.Store(errBox{err})
}

func TestMonitorInitialState(t *testing.T) {
	m := NewConnectivityMonitor(&fakePinger{}, false)
	if m.Online() {
		t.Error("expected initial Offline")
	}

	m = NewConnectivityMonitor(&fakePinger{}, true)
	if !m.Online() {
		t.Error("expected initial Online")
	}
}

func TestMonitorProbeTransitions(t *testing.T) {
	p := &fakePinger{}
	m := NewConnectivityMonitor(p, true)

	p.setErr(errors.New("connection refused"))
	if m.Probe(context.Background()) {
		t.Error("probe should report offline")
	}
	if m.Online() {
		t.Error("monitor should be Offline after failed probe")
	}

	p.setErr(nil)
	if !m.Probe(context.Background()) {
		t.Error("probe should report online")
	}
	if !m.Online() {
		t.Error("monitor should be Online after successful probe")
	}
}

func TestOnOnlineFiresOnlyOnTransition(t *testing.T) {
	m := NewConnectivityMonitor(&fakePinger{}, false)

	var fired atomic.Int32
	done := make(chan struct{}, 4)
	m.OnOnline(func() {
		fired.Add(1)
		done <- struct{}{}
	})

	m.MarkOnline()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback not fired on Offline→Online")
	}

	// Already online: no edge, no callback.
	m.MarkOnline()
	select {
	case <-done:
		t.Fatal("callback fired without a transition")
	case <-time.After(50 * time.Millisecond):
	}

	// Another full cycle fires again.
	m.MarkOffline()
	m.MarkOnline()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback not fired on second transition")
	}

	if got := fired.Load(); got != 2 {
		t.Errorf("expected 2 callback invocations, got %d", got)
	}
}

func TestMarkOfflineIsPassive(t *testing.T) {
	m := NewConnectivityMonitor(&fakePinger{}, true)

	called := false
	m.OnOnline(func() { called = true })

	m.MarkOffline()
	time.Sleep(20 * time.Millisecond)
	if called {
		t.Error("entering Offline must not fire the online callbacks")
	}
	if m.Online() {
		t.Error("expected Offline")
	}
}
