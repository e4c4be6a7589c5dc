package auth

import (
	"context"
	"sync"
	"sync/atomic"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultActivityBufferSize is used when NewAsyncActivitySink gets a non positive size
const DefaultActivityBufferSize = 256

const (
	TextCodeActivityBufferFull = "auth_activity_buffer_full"
	TextCodeActivitySinkClosed = "auth_activity_sink_closed"
)

// ErrActivityBufferFull is returned when an event is dropped
var ErrActivityBufferFull = goerrors.New("activity buffer full, event dropped", goerrors.CategoryInternal).
	WithTextCode(TextCodeActivityBufferFull)

// ErrActivitySinkClosed is returned by Record after Close
var ErrActivitySinkClosed = goerrors.New("activity sink closed", goerrors.CategoryInternal).
	WithTextCode(TextCodeActivitySinkClosed)

// AsyncActivitySink hands events to a background worker that forwards them
// to the wrapped sink. Record never blocks: when the buffer is full the event
// is dropped and counted.
type AsyncActivitySink struct {
	sink      ActivitySink
	logger    Logger
	ch        chan ActivityEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

var _ ActivitySink = (*AsyncActivitySink)(nil)

// NewAsyncActivitySink starts the worker. Call Close to flush pending events.
func NewAsyncActivitySink(sink ActivitySink, bufferSize int, logger Logger) *AsyncActivitySink {
	if bufferSize <= 0 {
		bufferSize = DefaultActivityBufferSize
	}

	d := &AsyncActivitySink{
		sink:   normalizeActivitySink(sink),
		logger: normalizeLogger(logger),
		ch:     make(chan ActivityEvent, bufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *AsyncActivitySink) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.emit(event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.emit(event)
				default:
					return
				}
			}
		}
	}
}

// events outlive the request that produced them
func (d *AsyncActivitySink) emit(event ActivityEvent) {
	if err := d.sink.Record(context.Background(), event); err != nil {
		d.logger.Warn("activity sink record error: %v", err)
	}
}

// Record implements ActivitySink.
func (d *AsyncActivitySink) Record(_ context.Context, event ActivityEvent) error {
	if d.closed.Load() {
		return ErrActivitySinkClosed.Clone()
	}

	select {
	case d.ch <- event:
		return nil
	case <-d.done:
		return ErrActivitySinkClosed.Clone()
	default:
		d.dropped.Add(1)
		return ErrActivityBufferFull.Clone()
	}
}

// Close stops accepting events and waits for the buffered ones to be sent
func (d *AsyncActivitySink) Close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns how many events were discarded because the buffer was full
func (d *AsyncActivitySink) Dropped() uint64 {
	return d.dropped.Load()
}
