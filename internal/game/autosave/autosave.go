// Package autosave reconciles in-memory session mutations with durable
// storage.
//
// Every mutation marks the session dirty; a single scheduler goroutine
// coalesces bursts of dirty marks into one write after a quiet period.
// Flush is a command on the same queue rather than a separate code path,
// which guarantees writes land in mutation order and that a flush never
// persists a snapshot older than one already marked dirty. Callers that
// navigate away or complete a game must Flush before returning control.
package autosave

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/whoisit/internal/game/domain"
	"github.com/louisbranch/whoisit/internal/storage"
)

// DefaultWindow is the debounce quiet period before an auto-save fires.
const DefaultWindow = 300 * time.Millisecond

const saveTimeout = 5 * time.Second

type commandKind int

const (
	commandDirty commandKind = iota
	commandFlush
	commandStop
)

type command struct {
	kind     commandKind
	snapshot domain.Snapshot
	reply    chan error
}

// Saver debounces session writes behind a command queue.
type Saver struct {
	store    storage.SessionStore
	window   time.Duration
	onError  func(error)
	commands chan command
}

// New starts a saver writing to store with the given debounce window.
// A window of zero uses DefaultWindow. onError receives failures of
// timer-driven saves; it may be nil. Failures of flushes are returned to
// the flushing caller instead.
func New(store storage.SessionStore, window time.Duration, onError func(error)) *Saver {
	if window <= 0 {
		window = DefaultWindow
	}
	if onError == nil {
		onError = func(error) {}
	}
	s := &Saver{
		store:    store,
		window:   window,
		onError:  onError,
		commands: make(chan command, 64),
	}
	go s.run()
	return s
}

// MarkDirty schedules a debounced save of the snapshot. Newer snapshots
// supersede older pending ones; the call does not wait for the write.
func (s *Saver) MarkDirty(snapshot domain.Snapshot) {
	s.commands <- command{kind: commandDirty, snapshot: snapshot}
}

// Flush cancels any pending debounce and persists the snapshot before
// returning. The snapshot passed here supersedes anything pending, so the
// newest in-memory state is what lands in storage.
func (s *Saver) Flush(ctx context.Context, snapshot domain.Snapshot) error {
	reply := make(chan error, 1)
	select {
	case s.commands <- command{kind: commandFlush, snapshot: snapshot, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes any pending snapshot and stops the scheduler.
func (s *Saver) Close(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.commands <- command{kind: commandStop, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the scheduler loop. All saves happen here, one at a time, so a
// flush can never race an in-flight debounced write. Pending snapshots are
// keyed by session id; concurrent sessions never clobber each other.
func (s *Saver) run() {
	pending := make(map[string]domain.Snapshot)

	timer := time.NewTimer(s.window)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false

	stopTimer := func() {
		if timerArmed && !timer.Stop() {
			<-timer.C
		}
		timerArmed = false
	}

	for {
		select {
		case cmd := <-s.commands:
			switch cmd.kind {
			case commandDirty:
				pending[cmd.snapshot.ID] = cmd.snapshot
				stopTimer()
				timer.Reset(s.window)
				timerArmed = true

			case commandFlush:
				delete(pending, cmd.snapshot.ID)
				if len(pending) == 0 {
					stopTimer()
				}
				cmd.reply <- s.save(cmd.snapshot)

			case commandStop:
				stopTimer()
				var err error
				for id, snapshot := range pending {
					if saveErr := s.save(snapshot); saveErr != nil && err == nil {
						err = saveErr
					}
					delete(pending, id)
				}
				cmd.reply <- err
				return
			}

		case <-timer.C:
			timerArmed = false
			for id, snapshot := range pending {
				if err := s.save(snapshot); err != nil {
					s.onError(err)
				}
				delete(pending, id)
			}
		}
	}
}

func (s *Saver) save(snapshot domain.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Put(ctx, snapshot); err != nil {
		return fmt.Errorf("save session %s: %w", snapshot.ID, err)
	}
	return nil
}
