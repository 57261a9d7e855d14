package cascade

import (
	"context"
	"sync"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// fetchFunc es el request de un nivel, parametrizado por el id del padre
type fetchFunc func(ctx context.Context, parentID kernel.RegionID) ([]Option, error)

// levelQuery mantiene la lista de opciones de un nivel del cascade.
//
// Derived-query pattern: the request key is the parent id, and every refresh
// bumps a generation counter. A response only lands if its generation is still
// current, so a slow response for a superseded parent can never overwrite the
// list of a newer one. This is stale-response suppression, not cancellation —
// the old request finishes, its result is discarded.
type levelQuery struct {
	fetch fetchFunc
	// parentless marks the root level (province), which always loads.
	parentless bool

	mu         sync.Mutex
	generation uint64
	parentID   kernel.RegionID
	options    []Option
	loading    bool
	err        error
}

func newLevelQuery(fetch fetchFunc, parentless bool) *levelQuery {
	return &levelQuery{
		fetch: fetch,
		// parentless levels start empty too; Refresh does the initial load
		parentless: parentless,
	}
}

// Refresh repuebla el nivel para el parent dado; bloquea hasta terminar.
// Callers that need it non-blocking run it in a goroutine; the generation
// guard keeps concurrent refreshes consistent.
func (q *levelQuery) Refresh(ctx context.Context, parentID kernel.RegionID) {
	q.mu.Lock()
	q.generation++
	gen := q.generation
	q.parentID = parentID

	// an unset parent yields an empty list without issuing a request
	if parentID.IsZero() && !q.parentless {
		q.options = nil
		q.loading = false
		q.err = nil
		q.mu.Unlock()
		return
	}

	q.loading = true
	q.err = nil
	q.mu.Unlock()

	options, err := q.fetch(ctx, parentID)

	q.mu.Lock()
	defer q.mu.Unlock()

	// stale: a newer refresh superseded this request while it was in flight
	if q.generation != gen {
		return
	}

	q.loading = false
	if err != nil {
		// degrade to "no options"; the user re-selecting the parent retries
		q.options = nil
		q.err = err
		return
	}
	q.options = options
	q.err = nil
}

// Reset vacía el nivel sin emitir ningún request
func (q *levelQuery) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	q.parentID = 0
	q.options = nil
	q.loading = false
	q.err = nil
}

// Options devuelve la lista actual (en el orden que entregó el backend)
func (q *levelQuery) Options() []Option {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Option, len(q.options))
	copy(out, q.options)
	return out
}

// Loading indica si hay un request en vuelo para la generación actual
func (q *levelQuery) Loading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loading
}

// Err devuelve el error del último fetch fallido (nil si la lista es válida)
func (q *levelQuery) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// ParentID devuelve la clave de request vigente
func (q *levelQuery) ParentID() kernel.RegionID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.parentID
}
