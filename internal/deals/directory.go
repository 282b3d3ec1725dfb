// Package deals loads and holds the authoritative set of queryable
// deals and the active selection.
package deals

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNoDeals is returned by Load when the backend reports an empty
// deal set or the fetch fails outright. The condition is retryable by
// calling Load again.
var ErrNoDeals = errors.New("no deals available")

// LoadFailureMessage is the user-facing text shown when the deal list
// cannot be fetched. Submission stays disabled until a retry succeeds.
const LoadFailureMessage = "Deal fetch failed: the server has abandoned us like a burnt contract. " +
	"No deals mean no queries. Try again when the universe feels generous."

// Lister is the backend call the directory depends on.
type Lister interface {
	ListDeals(ctx context.Context) ([]string, error)
}

// Directory owns the loaded deal set and the current selection. Deal
// identifiers are opaque server-side names; the client only ever
// selects among the fetched set.
type Directory struct {
	mu       sync.Mutex
	api      Lister
	log      *zap.Logger
	deals    []string
	selected string
}

func NewDirectory(api Lister, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Directory{api: api, log: log}
}

// Load fetches the deal list, replacing the held set wholesale. On
// success with a non-empty set the first deal becomes the active
// selection. An empty set or any fetch failure clears both the set and
// the selection and returns an error wrapping ErrNoDeals.
func (d *Directory) Load(ctx context.Context) error {
	deals, err := d.api.ListDeals(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.deals = nil
		d.selected = ""
		d.log.Warn("deal list fetch failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNoDeals, err)
	}
	if len(deals) == 0 {
		d.deals = nil
		d.selected = ""
		return ErrNoDeals
	}

	d.deals = deals
	d.selected = deals[0]
	d.log.Debug("deal list loaded", zap.Int("count", len(deals)), zap.String("selected", d.selected))
	return nil
}

// Select switches the active selection. Pure local state change; ids
// outside the loaded set are rejected without touching state.
func (d *Directory) Select(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, deal := range d.deals {
		if deal == id {
			d.selected = id
			return true
		}
	}
	return false
}

// Selected returns the active deal, ok=false when nothing is selected.
// An empty deal set and an empty selection are the same condition.
func (d *Directory) Selected() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == "" {
		return "", false
	}
	return d.selected, true
}

// Deals returns a copy of the loaded set.
func (d *Directory) Deals() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.deals))
	copy(out, d.deals)
	return out
}

// Available reports whether submission is possible at all.
func (d *Directory) Available() bool {
	_, ok := d.Selected()
	return ok
}
