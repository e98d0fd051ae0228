package sqlite

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const debounceDelay = 50 * time.Millisecond

// walWatcher watches the database directory for writes to the database or
// its WAL file made by other processes and fires refresh after a short
// debounce. Our own writes also trigger it; the extra refresh is harmless
// because snapshot delivery coalesces.
type walWatcher struct {
	watcher *fsnotify.Watcher
	dbFile  string
	refresh func()
	log     zerolog.Logger

	mu       sync.Mutex
	debounce *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

func newWALWatcher(dir, dbFile string, refresh func(), log zerolog.Logger) (*walWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w := &walWatcher{
		watcher: watcher,
		dbFile:  dbFile,
		refresh: refresh,
		log:     log,
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops watching. Pending debounce timers are stopped; a refresh
// already in flight completes.
func (w *walWatcher) Close() error {
	close(w.done)

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *walWatcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *walWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	name := filepath.Base(event.Name)
	if name != w.dbFile && !strings.HasPrefix(name, w.dbFile+"-") {
		return
	}

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		select {
		case <-w.done:
		default:
			w.refresh()
		}
	})
	w.mu.Unlock()
}
