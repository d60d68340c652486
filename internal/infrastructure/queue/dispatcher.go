package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	deleteTimeout  = 30 * time.Second
)

// Deleter removes a stored object.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// PurgeDispatcher deletes objects from storage off the request path. Keys are
// sharded by hash so repeated purges of one key run in order on one worker.
type PurgeDispatcher struct {
	workers []chan string
	store   Deleter
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPurgeDispatcher creates a dispatcher with numWorkers sharded workers,
// each buffering up to buffer keys.
func NewPurgeDispatcher(numWorkers, buffer int, store Deleter, log zerolog.Logger) *PurgeDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &PurgeDispatcher{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, buffer)
	}
	return d
}

// Start launches the workers. They exit once Stop has drained the queues.
func (d *PurgeDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue never blocks; when the shard is full or the dispatcher is stopped
// the key is dropped and logged so an operator can clean it up.
func (d *PurgeDispatcher) Enqueue(key string) {
	if key == "" {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(key, "dispatcher stopped")
		return
	}
	idx := d.shardIndex(key)
	select {
	case d.workers[idx] <- key:
		metrics.PurgeQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(key, "queue full")
	}
}

// Stop closes the queues and waits for pending purges to finish.
func (d *PurgeDispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *PurgeDispatcher) drop(key, reason string) {
	metrics.PurgesTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().Str("key", key).Str("reason", reason).Msg("object purge dropped")
}

func (d *PurgeDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *PurgeDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	depth := metrics.PurgeQueueDepth.WithLabelValues(strconv.Itoa(id))
	for key := range ch {
		depth.Dec()
		d.purge(ctx, id, key)
	}
}

func (d *PurgeDispatcher) purge(ctx context.Context, id int, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()

	if err := d.store.Delete(ctx, key); err != nil {
		metrics.PurgesTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).Str("key", key).Int("worker_id", id).Msg("object purge failed")
		return
	}
	metrics.PurgesTotal.WithLabelValues("deleted").Inc()
	d.log.Debug().Str("key", key).Int("worker_id", id).Msg("object purged")
}
