package notes

import (
	"sync"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"
)

// DefaultSearchDelay is the quiet period before a typed query is run.
const DefaultSearchDelay = 300 * time.Millisecond

// LiveSearch runs Search as the user types, only after input settles.
type LiveSearch struct {
	store    *Store
	debounce *util.Debouncer
	onResult func(query string, found []models.Note)

	mu    sync.Mutex
	query string
}

func NewLiveSearch(store *Store, wait time.Duration, onResult func(query string, found []models.Note)) *LiveSearch {
	if wait <= 0 {
		wait = DefaultSearchDelay
	}
	return &LiveSearch{
		store:    store,
		debounce: util.NewDebouncer(wait),
		onResult: onResult,
	}
}

// Input records the latest query and (re)starts the quiet-period timer.
func (l *LiveSearch) Input(query string) {
	l.mu.Lock()
	l.query = query
	l.mu.Unlock()

	l.debounce.Trigger(l.run)
}

func (l *LiveSearch) run() {
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()

	l.onResult(q, l.store.Search(q))
}

// Cancel drops a query that has not run yet.
func (l *LiveSearch) Cancel() bool { return l.debounce.Cancel() }

// Flush runs the pending query immediately.
func (l *LiveSearch) Flush() bool { return l.debounce.Flush() }

func (l *LiveSearch) Close() { l.debounce.Stop() }
