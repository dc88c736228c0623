package service

import (
	"context"
	"sync"

	"github.com/yourorg/storefront/internal/model"
	"github.com/yourorg/storefront/internal/query"
)

// View is one browsing view: the current selection plus the list on display.
//
// Refreshes may overlap. Each refresh takes the next sequence number and
// cancels the one before it; a response is applied only while its sequence
// number is still the latest, so an older response can never overwrite a
// newer one.
type View struct {
	service *CatalogService

	mu          sync.Mutex
	selection   query.Selection
	restaurants []model.Restaurant
	state       FetchState
	last        FetchState
	seq         uint64
	cancel      context.CancelFunc
}

// NewView creates a view with the default selection
func NewView(service *CatalogService) *View {
	return &View{
		service:     service,
		selection:   query.DefaultSelection(),
		restaurants: []model.Restaurant{},
		state:       StateIdle,
		last:        StateIdle,
	}
}

// Selection returns the current selection
func (v *View) Selection() query.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection
}

// Restaurants returns a copy of the list on display
func (v *View) Restaurants() []model.Restaurant {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Restaurant, len(v.restaurants))
	copy(out, v.restaurants)
	return out
}

// Count returns the derived restaurant count on display
func (v *View) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection.Count
}

// State returns StateLoading while a refresh is outstanding, StateIdle otherwise
func (v *View) State() FetchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// LastOutcome returns the state of the last applied refresh
func (v *View) LastOutcome() FetchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Update applies actions to the selection without refreshing
func (v *View) Update(actions ...query.Action) query.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = query.Apply(v.selection, actions...)
	return v.selection
}

// Dispatch applies actions to the selection and refreshes the list
func (v *View) Dispatch(ctx context.Context, actions ...query.Action) Result {
	v.Update(actions...)
	return v.Refresh(ctx)
}

// Refresh fetches the list for the current selection
func (v *View) Refresh(ctx context.Context) Result {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state = StateLoading
	sel := v.selection
	v.mu.Unlock()

	res := v.service.Fetch(fetchCtx, sel)
	res.Seq = seq

	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		res.Stale = true
		return res
	}
	cancel()
	v.cancel = nil
	v.restaurants = res.Restaurants
	v.selection = query.Apply(v.selection, query.SetCount(res.Count))
	v.last = res.State
	v.state = StateIdle
	sel = v.selection
	v.mu.Unlock()

	v.service.RecordView(ctx, sel, res)
	return res
}
