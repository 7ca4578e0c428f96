package store

import (
	"context"
	"sync"
	"time"

	"github.com/matt-steen/todo-board/pkg/storage"
	"github.com/rs/zerolog/log"
)

// persister writes snapshots in the background. Only the newest unwritten snapshot is kept, so a
// burst of actions results in one write.
type persister struct {
	adapter *storage.Adapter
	key     string
	timeout time.Duration

	mu       sync.Mutex
	latest   *State
	queued   uint64
	written  uint64
	progress chan struct{}

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newPersister(adapter *storage.Adapter, key string, timeout time.Duration) *persister {
	p := &persister{
		adapter:  adapter,
		key:      key,
		timeout:  timeout,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go p.run()

	return p
}

func (p *persister) submit(st State) {
	p.mu.Lock()
	p.latest = &st
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)

	for {
		select {
		case <-p.wake:
			p.writeLatest()
		case <-p.stop:
			p.writeLatest()

			return
		}
	}
}

func (p *persister) writeLatest() {
	p.mu.Lock()
	st := p.latest
	seq := p.queued
	p.latest = nil
	p.mu.Unlock()

	if st != nil {
		p.write(*st)
	}

	p.mu.Lock()
	if seq > p.written {
		p.written = seq
	}

	close(p.progress)
	p.progress = make(chan struct{})
	p.mu.Unlock()
}

func (p *persister) write(st State) {
	blob, err := Encode(st)
	if err != nil {
		log.Error().Err(err).Msg("could not serialize board, write skipped")

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.adapter.Set(ctx, p.key, blob)
}

// flush waits until everything submitted so far has been written (or dropped by the adapter).
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.written >= target {
			p.mu.Unlock()

			return nil
		}

		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *persister) close(ctx context.Context) error {
	err := p.flush(ctx)

	p.once.Do(func() { close(p.stop) })

	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return err
}
