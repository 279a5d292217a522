package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
)

const DefaultTrackingInterval = 10 * time.Second

// Snapshotter produces one frame of the live cart-tracking feed.
type Snapshotter interface {
	Snapshot(ctx context.Context, f models.TrackingFilter, selected primitive.ObjectID) models.TrackingSnapshot
}

// LiveQuery is the message a client sends to change what the feed shows.
type LiveQuery struct {
	HasCart        *bool  `json:"hasCart,omitempty"`
	SortBy         string `json:"sortBy,omitempty"`
	Order          string `json:"order,omitempty"`
	SelectedUserID string `json:"selectedUserId,omitempty"`
}

func (q LiveQuery) filter() models.TrackingFilter {
	return models.TrackingFilter{HasCart: q.HasCart, SortBy: q.SortBy, Order: q.Order}.Normalize()
}

func (q LiveQuery) selected() primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(q.SelectedUserID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// Poller refreshes a snapshot on a fixed interval and whenever the query
// changes. A query change cancels the refresh in flight; an interval tick is
// skipped while one is still running. A result is only published if no newer
// refresh has started since, so sequence numbers seen by the client strictly
// increase.
type Poller struct {
	source   Snapshotter
	interval time.Duration
	publish  func(models.TrackingSnapshot) error

	mu        sync.Mutex
	query     LiveQuery
	seq       uint64
	published uint64
	cancel    context.CancelFunc
	inFlight  bool
	trigger   chan struct{}
}

func NewPoller(source Snapshotter, interval time.Duration, publish func(models.TrackingSnapshot) error) *Poller {
	if interval <= 0 {
		interval = DefaultTrackingInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		publish:  publish,
		trigger:  make(chan struct{}, 1),
	}
}

// Update replaces the query and asks for an immediate refresh.
func (p *Poller) Update(q LiveQuery) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done. In-flight refreshes are cancelled and waited for.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer func() {
		p.mu.Lock()
		if p.cancel != nil {
			p.cancel()
		}
		p.mu.Unlock()
		wg.Wait()
	}()

	p.refresh(ctx, &wg, true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx, &wg, false)
		case <-p.trigger:
			ticker.Reset(p.interval)
			p.refresh(ctx, &wg, true)
		}
	}
}

// refresh starts a snapshot. Unless supersede is set it leaves a running
// refresh alone, so a store slower than the interval still gets published.
func (p *Poller) refresh(ctx context.Context, wg *sync.WaitGroup, supersede bool) {
	p.mu.Lock()
	if p.inFlight && !supersede {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.inFlight = true
	p.seq++
	seq := p.seq
	q := p.query
	rctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		snap := p.source.Snapshot(rctx, q.filter(), q.selected())
		p.deliver(rctx, seq, snap)
	}()
}

func (p *Poller) deliver(ctx context.Context, seq uint64, snap models.TrackingSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.seq {
		p.inFlight = false
	}
	if ctx.Err() != nil || seq != p.seq || seq <= p.published {
		return
	}
	snap.Seq = seq
	p.published = seq
	if err := p.publish(snap); err != nil {
		logging.Debug().Err(err).Uint64("seq", seq).Msg("failed to publish tracking snapshot")
	}
}
