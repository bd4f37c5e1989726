package notifications

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Santos2175/auth-app/internal/logging"
)

const sendTimeout = 30 * time.Second

// Dispatcher hands notifications to a Sink on a single background worker.
// Notify never blocks: when the queue is full the notification is dropped
// and logged. Send failures are logged and not retried.
type Dispatcher struct {
	sink      Sink
	logger    logging.Logger
	ch        chan Notification
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closeOnce sync.Once

	// mu orders Notify against Close: once closed is set under the write
	// lock, no Notify is midway through queueing.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, logger logging.Logger, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	d := &Dispatcher{
		sink:   sink,
		logger: logger.With("module", "notifications"),
		ch:     make(chan Notification, bufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case n := <-d.ch:
			d.deliver(n)
		case <-d.done:
			for {
				select {
				case n := <-d.ch:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sink.Send(ctx, n); err != nil {
		d.logger.Error(ctx, "notification not sent",
			"kind", string(n.Kind), "to", n.Recipient, "error", err)
		return
	}
	d.logger.Debug(ctx, "notification sent", "kind", string(n.Kind), "to", n.Recipient)
}

// Notify queues n. It is safe for concurrent use, including with Close.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.Warn(ctx, "notification after close dropped", "kind", string(n.Kind), "to", n.Recipient)
		return
	}

	select {
	case d.ch <- n:
	default:
		d.dropped.Add(1)
		d.logger.Warn(ctx, "notification queue full, dropped", "kind", string(n.Kind), "to", n.Recipient)
	}
}

// Close stops accepting notifications and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many notifications were not queued, because the queue
// was full or the dispatcher was closed.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
