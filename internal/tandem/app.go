package tandem

import (
	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/docstore"
)

// App bundles the services over a shared document store.
type App struct {
	Lists     *ListService
	Tasks     *TaskService
	Collab    *CollabService
	Activity  *ActivityLog
	Directory *StoreDirectory

	store docstore.Store
}

// NewApp wires the services onto a store. The caller owns the store's
// lifetime; Close releases the app's view of it.
func NewApp(store docstore.Store, log zerolog.Logger) *App {
	acts := NewActivityLog(store, log)
	dir := NewStoreDirectory(store)
	return &App{
		Lists:     NewListService(store, acts, log),
		Tasks:     NewTaskService(store, acts, log),
		Collab:    NewCollabService(store, dir, acts, log),
		Activity:  acts,
		Directory: dir,
		store:     store,
	}
}

func (a *App) Close() error {
	return a.store.Close()
}
