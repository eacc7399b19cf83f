package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type job struct {
	key string
	due time.Time
	fn  func()
}

// Dispatcher runs delayed commits on a fixed set of workers. Jobs are sharded
// by key with consistent hashing, so commits for one form run in the order
// they were scheduled. Every job sharing a shard has the same delay in
// practice, which keeps due times monotonic per worker and lets a worker
// simply wait for the head of its queue.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger
	now     func() time.Time

	wg      sync.WaitGroup
	late    sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
		now:     time.Now,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Schedule queues fn to run after delay on the worker owning key. It blocks
// when that worker's buffer is full. After Shutdown, fn still runs after
// delay, on its own timer, so no accepted commit is lost or hurried; a later
// Shutdown call waits for those too.
func (d *Dispatcher) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.RLock()
	if d.closed {
		d.late.Add(1)
		d.mu.RUnlock()
		d.log.Warn().Str("key", key).Dur("delay", delay).Msg("dispatcher closed, running commit on a timer")
		time.AfterFunc(delay, func() {
			defer d.late.Done()
			d.call(-1, key, fn)
		})
		return
	}
	idx := d.shardIndex(key)
	metrics.CommitQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	d.workers[idx] <- job{key: key, due: d.now().Add(delay), fn: fn}
	d.mu.RUnlock()
}

// Shutdown stops accepting new jobs and waits until every queued job has run
// or ctx ends. Queued jobs still honour their delay; there is no abort path.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	started := d.started
	d.mu.Unlock()

	if !started {
		// Nobody will drain the channels; run what is left here.
		for i, ch := range d.workers {
			for j := range ch {
				d.run(i, j)
			}
		}
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		d.late.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan job) {
	defer d.wg.Done()
	for j := range ch {
		if wait := j.due.Sub(d.now()); wait > 0 {
			time.Sleep(wait)
		}
		d.run(id, j)
	}
}

func (d *Dispatcher) run(id int, j job) {
	metrics.CommitQueueDepth.WithLabelValues(strconv.Itoa(id)).Dec()
	d.call(id, j.key, j.fn)
}

// call runs fn and logs a panic instead of propagating it. id is -1 for
// commits scheduled after Shutdown.
func (d *Dispatcher) call(id int, key string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("key", key).
				Int("worker_id", id).
				Msg("commit panicked")
		}
	}()
	fn()
}
