package tilemap

import (
	"math/rand/v2"

	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// Neighborhood gives the resolver read access to surrounding cells.
type Neighborhood interface {
	// KindAt returns nil for coordinates outside the map.
	KindAt(x, y int) *tiles.Kind
}

// Resolver picks the concrete sprite rect a cell shows.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver creates a resolver drawing randomness from src.
func NewResolver(src rand.Source) *Resolver {
	return &Resolver{rng: rand.New(src)}
}

// Pick chooses a rect for a cell of the given kind at (x, y). The kind's
// candidates depend on the cell directly above; which neighbors select
// which candidates is catalog data (tiles.Variant).
func (r *Resolver) Pick(kind *tiles.Kind, x, y int, n Neighborhood) (tiles.Rect, bool) {
	var above *tiles.Kind
	if kind.ContextSensitive() {
		above = n.KindAt(x, y-1)
	}

	candidates := kind.Candidates(above)
	switch len(candidates) {
	case 0:
		return tiles.Rect{}, false
	case 1:
		return candidates[0], true
	default:
		return candidates[r.rng.IntN(len(candidates))], true
	}
}
