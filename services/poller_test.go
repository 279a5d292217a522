package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
)

type scriptedSnapshotter struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	started chan struct{}
	filters []models.TrackingFilter
}

func (s *scriptedSnapshotter) Snapshot(ctx context.Context, f models.TrackingFilter, _ primitive.ObjectID) models.TrackingSnapshot {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.filters = append(s.filters, f)
	s.mu.Unlock()

	if call == 1 && s.block != nil {
		close(s.started)
		// Ignores ctx on purpose: a slow store that does not honour cancellation.
		<-s.block
		return models.TrackingSnapshot{Error: "stale"}
	}
	return models.TrackingSnapshot{Users: []models.UserCartSummary{{Name: f.SortBy}}}
}

type collector struct {
	mu    sync.Mutex
	snaps []models.TrackingSnapshot
	got   chan struct{}
}

func newCollector() *collector { return &collector{got: make(chan struct{}, 16)} }

func (c *collector) publish(s models.TrackingSnapshot) error {
	c.mu.Lock()
	c.snaps = append(c.snaps, s)
	c.mu.Unlock()
	c.got <- struct{}{}
	return nil
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestPollerNeverPublishesStale(t *testing.T) {
	src := &scriptedSnapshotter{block: make(chan struct{}), started: make(chan struct{})}
	col := newCollector()
	p := NewPoller(src, time.Hour, col.publish)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// first refresh is stuck; a filter change supersedes it
	<-src.started
	p.Update(LiveQuery{SortBy: models.TrackingSortName})
	col.wait(t)

	close(src.block)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	col.mu.Lock()
	defer col.mu.Unlock()
	if len(col.snaps) != 1 {
		t.Fatalf("published %d snapshots, want 1", len(col.snaps))
	}
	if col.snaps[0].Error == "stale" {
		t.Fatal("stale snapshot was published")
	}
	if col.snaps[0].Seq != 2 {
		t.Fatalf("seq = %d, want 2", col.snaps[0].Seq)
	}
	if col.snaps[0].Users[0].Name != models.TrackingSortName {
		t.Fatalf("snapshot did not use the new filter")
	}
}

func TestPollerIntervalAndMonotonicSeq(t *testing.T) {
	src := &scriptedSnapshotter{}
	col := newCollector()
	p := NewPoller(src, 20*time.Millisecond, col.publish)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 3; i++ {
		col.wait(t)
	}
	cancel()
	<-done

	col.mu.Lock()
	defer col.mu.Unlock()
	var last uint64
	for _, s := range col.snaps {
		if s.Seq <= last {
			t.Fatalf("sequence went from %d to %d", last, s.Seq)
		}
		last = s.Seq
	}
}

func TestPollerDefaultsFilter(t *testing.T) {
	src := &scriptedSnapshotter{}
	col := newCollector()
	p := NewPoller(src, time.Hour, col.publish)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	col.wait(t)
	cancel()
	<-done

	src.mu.Lock()
	defer src.mu.Unlock()
	f := src.filters[0]
	if f.SortBy != models.TrackingSortLastActivity || f.Order != "desc" {
		t.Fatalf("unexpected default filter %+v", f)
	}
}

type slowSnapshotter struct {
	delay time.Duration
}

func (s slowSnapshotter) Snapshot(ctx context.Context, _ models.TrackingFilter, _ primitive.ObjectID) models.TrackingSnapshot {
	select {
	case <-time.After(s.delay):
		return models.TrackingSnapshot{}
	case <-ctx.Done():
		return models.TrackingSnapshot{Error: ctx.Err().Error()}
	}
}

func TestPollerPublishesWhenSnapshotOutlastsInterval(t *testing.T) {
	col := newCollector()
	p := NewPoller(slowSnapshotter{delay: 30 * time.Millisecond}, 20*time.Millisecond, col.publish)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	col.wait(t)
	col.wait(t)
	cancel()
	<-done

	col.mu.Lock()
	defer col.mu.Unlock()
	for _, s := range col.snaps {
		if s.Error != "" {
			t.Fatalf("published a cancelled snapshot: %q", s.Error)
		}
	}
}
