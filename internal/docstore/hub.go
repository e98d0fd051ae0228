package docstore

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Subscription is the consumer handle for a live snapshot query.
//
// C delivers the full matching document set after every relevant change.
// Cancel is the mandatory teardown: after it returns, no further snapshot
// is delivered and C is closed. Dropping the handle without calling
// Cancel leaks the subscription for the store's lifetime.
type Subscription struct {
	ch     chan []Document
	done   chan struct{}
	cancel func()
	once   sync.Once
}

// C returns the snapshot channel. It is closed by Cancel or store Close.
func (s *Subscription) C() <-chan []Document {
	return s.ch
}

// Cancel stops delivery and releases the subscription. Safe to call
// multiple times. When Cancel returns, no send on C is in flight.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
}

// Source queries the current matching set for a subscriber. Backends pass
// their own read path when constructing a Hub.
type Source func(collection string, f Filter) ([]Document, error)

type subscriber struct {
	collection string
	filter     Filter
	ch         chan []Document

	// seqMu orders snapshot delivery. Each refresh takes a sequence
	// number before reading the source, and send drops any snapshot
	// older than the one already delivered, so a slow reader that
	// queried before a mutation can never clobber the newer set.
	seqMu     sync.Mutex
	nextSeq   uint64
	delivered uint64
}

// Hub fans mutation notifications out to snapshot subscribers. Both store
// backends share it: after every committed mutation the backend calls
// Notify with the touched collection, and the hub recomputes and delivers
// the matching set to each subscriber of that collection.
type Hub struct {
	source Source
	log    zerolog.Logger

	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub creates a hub reading current state through source.
func NewHub(source Source, log zerolog.Logger) *Hub {
	return &Hub{
		source: source,
		log:    log.With().Str("component", "docstore-hub").Logger(),
		subs:   make(map[*subscriber]struct{}),
	}
}

// Subscribe registers a snapshot subscription and schedules delivery of
// the initial matching set. Cancellation happens through the returned
// handle or through ctx.
func (h *Hub) Subscribe(ctx context.Context, collection string, f Filter) (*Subscription, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	sub := &subscriber{
		collection: collection,
		filter:     f,
		ch:         make(chan []Document, 1),
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	s := &Subscription{
		ch:     sub.ch,
		done:   make(chan struct{}),
		cancel: func() { h.remove(sub) },
	}

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Cancel()
			case <-s.done:
			}
		}()
	}

	// Initial snapshot, delivered asynchronously like any other change.
	go h.refresh(sub)

	return s, nil
}

// Notify recomputes and delivers snapshots for every subscriber of the
// given collection. Called by backends after each committed mutation.
func (h *Hub) Notify(collection string) {
	for _, sub := range h.subscribers(collection) {
		h.refresh(sub)
	}
}

// NotifyAll refreshes every subscriber regardless of collection. Used
// when the backend cannot attribute an external change to a single
// collection (e.g. another process wrote the database file).
func (h *Hub) NotifyAll() {
	for _, sub := range h.subscribers("") {
		h.refresh(sub)
	}
}

// Close cancels all subscriptions and closes their channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}

// subscribers returns the subscribers of a collection; an empty
// collection selects all of them.
func (h *Hub) subscribers(collection string) []*subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		if collection == "" || sub.collection == collection {
			out = append(out, sub)
		}
	}
	return out
}

// refresh queries the current matching set and delivers it. The sequence
// number is taken before the read so that send can tell a snapshot taken
// before a mutation apart from the one the mutation triggered.
func (h *Hub) refresh(sub *subscriber) {
	sub.seqMu.Lock()
	sub.nextSeq++
	seq := sub.nextSeq
	sub.seqMu.Unlock()

	docs, err := h.source(sub.collection, sub.filter)
	if err != nil {
		h.log.Error().Err(err).Str("collection", sub.collection).Msg("snapshot query failed")
		return
	}
	h.send(sub, dedupe(docs), seq)
}

// send delivers a snapshot with latest-wins coalescing: when the consumer
// lags, the stale buffered snapshot is replaced rather than queued behind.
// Snapshots arriving out of sequence are dropped, so delivery is monotonic
// even when two refreshes overlap. Sends hold the read lock so that
// remove/Close (which hold the write lock) can never close the channel
// mid-send; once Cancel returns no further delivery is possible.
func (h *Hub) send(sub *subscriber, docs []Document, seq uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	sub.seqMu.Lock()
	defer sub.seqMu.Unlock()
	if seq < sub.delivered {
		return
	}
	sub.delivered = seq
	for {
		select {
		case sub.ch <- docs:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// dedupe drops duplicate document ids, keeping the last occurrence.
func dedupe(docs []Document) []Document {
	seen := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if i, ok := seen[d.ID]; ok {
			out[i] = d
			continue
		}
		seen[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}
