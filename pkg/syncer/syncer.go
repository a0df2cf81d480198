// Package syncer debounces binder writes to a remote store.
//
// Every mutation calls Notify, which arms (or re-arms) a timer. When the
// timer fires the current snapshot is written, so a burst of edits costs a
// single request and only the latest state ever goes over the wire. A
// failed write is retried once; a second failure parks the syncer in an
// error state until the next mutation.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// Writer persists a binder document. Implemented by pkg/client and by the
// write-through cache wrapper in cmd.
type Writer interface {
	PutBinder(ctx context.Context, doc domain.Document) error
}

// State reports where the syncer is in its write cycle.
type State int

const (
	StateIdle State = iota
	StateSyncing
	StateError
)

func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateError:
		return "sync failed"
	default:
		return "saved"
	}
}

const (
	defaultDebounce   = 750 * time.Millisecond
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 15 * time.Second
)

// Syncer coalesces change notifications into debounced writes.
type Syncer struct {
	writer     Writer
	snapshot   func() domain.Document
	debounce   time.Duration
	retryDelay time.Duration
	timeout    time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	lastWritten []byte
	state       State
	err         error
	closed      bool
}

// Option tweaks syncer timing, mostly for tests.
type Option func(*Syncer)

func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) { s.debounce = d }
}

func WithRetryDelay(d time.Duration) Option {
	return func(s *Syncer) { s.retryDelay = d }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// New builds a syncer over w. snapshot must return a self-contained copy of
// the current binder state and be safe to call from any goroutine.
func New(w Writer, snapshot func() domain.Document, opts ...Option) *Syncer {
	s := &Syncer{
		writer:     w,
		snapshot:   snapshot,
		debounce:   defaultDebounce,
		retryDelay: defaultRetryDelay,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify schedules a write after the debounce window. A notify during the
// window resets it, so rapid edits collapse into one request. Notify also
// clears a previous error state: the next cycle gets a fresh attempt.
func (s *Syncer) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state = StateSyncing
	s.err = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.write(1) })
}

func (s *Syncer) write(attempt int) {
	doc := s.snapshot()
	canon, err := canonical(doc)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if bytes.Equal(canon, s.lastWritten) {
		s.state = StateIdle
		s.err = nil
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	doc.UpdatedAt = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	err = s.writer.PutBinder(ctx, doc)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.lastWritten = canon
		s.state = StateIdle
		s.err = nil
		return
	}
	if attempt == 1 && !s.closed {
		// One retry. It takes a fresh snapshot, so edits made in the
		// meantime ride along instead of queueing a second write.
		s.err = err
		s.timer = time.AfterFunc(s.retryDelay, func() { s.write(2) })
		return
	}
	s.state = StateError
	s.err = err
}

func (s *Syncer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.err = err
}

// Flush writes the current snapshot immediately, bypassing the debounce.
// Used after seeding a new binder and before quitting.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	doc := s.snapshot()
	canon, err := canonical(doc)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	if bytes.Equal(canon, s.lastWritten) {
		s.state = StateIdle
		s.err = nil
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	doc.UpdatedAt = time.Now().UTC()
	err = s.writer.PutBinder(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.err = err
		return err
	}
	s.lastWritten = canon
	s.state = StateIdle
	s.err = nil
	return nil
}

// ShouldApply reports whether a document received from the server carries
// changes we have not seen. Returns false for echoes of our own last write,
// which would otherwise clobber edits made since.
func (s *Syncer) ShouldApply(remote domain.Document) bool {
	canon, err := canonical(remote)
	if err != nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !bytes.Equal(canon, s.lastWritten)
}

// MarkSynced records doc as the last-written state without a write. Called
// after loading from the server so an unchanged binder never syncs.
func (s *Syncer) MarkSynced(doc domain.Document) {
	canon, err := canonical(doc)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastWritten = canon
	s.state = StateIdle
	s.err = nil
}

// State returns the current cycle state and, when in StateError, the error
// that parked it there.
func (s *Syncer) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Close cancels any pending write. It does not flush; call Flush first if
// unsaved changes matter.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// canonical serializes doc with the timestamp zeroed, so two documents with
// the same content compare equal regardless of when they were written.
func canonical(doc domain.Document) ([]byte, error) {
	doc.UpdatedAt = time.Time{}
	return json.Marshal(doc)
}
