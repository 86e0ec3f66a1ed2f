package regradient

import (
	"fmt"
	"math"
	"slices"
)

// Default size and stops of a gradient created with NewGradient.
const (
	DefaultWidth  = 256
	DefaultHeight = 64
)

// StopID identifies a stop independently of its index or position.
// Ids stay valid across any number of re-sorts.
type StopID int64

// Stop is one anchor point of a gradient.
type Stop struct {
	Position float64 // Position along the gradient, 0.0 to 1.0
	Color    RGBA    // Straight-alpha color at this position
	ID       StopID  // Stable identity
}

// Gradient is an ordered collection of stops plus target output dimensions.
//
// Stops are kept sorted ascending by position after every mutation. Stops
// with equal positions keep their previous relative order, so evaluating an
// unchanged gradient twice always gives the same result.
//
// A Gradient is owned by its caller and is not safe for concurrent mutation.
type Gradient struct {
	stops  []Stop
	width  int
	height int
	nextID StopID
}

// NewGradient creates a gradient of DefaultWidth x DefaultHeight with two
// stops: opaque white at 0 and opaque black at 1.
func NewGradient() *Gradient {
	g := NewEmptyGradient(DefaultWidth, DefaultHeight)
	g.AddStop(White, 0)
	g.AddStop(Black, 1)
	return g
}

// NewEmptyGradient creates a gradient with no stops.
func NewEmptyGradient(width, height int) *Gradient {
	return &Gradient{width: width, height: height, nextID: 1}
}

// RestoreGradient rebuilds a gradient from previously stored stops, keeping
// their ids. Positions are clamped to [0, 1] and the stops are sorted; stops
// with equal positions keep the order they were given in. New ids issued by
// AddStop continue above the largest restored id.
func RestoreGradient(stops []Stop, width, height int) (*Gradient, error) {
	g := NewEmptyGradient(width, height)
	seen := make(map[StopID]struct{}, len(stops))
	g.stops = make([]Stop, 0, len(stops))
	for _, s := range stops {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateStopID, s.ID)
		}
		seen[s.ID] = struct{}{}
		s.Position = clamp01(s.Position)
		g.stops = append(g.stops, s)
		if s.ID >= g.nextID {
			g.nextID = s.ID + 1
		}
	}
	g.sortStops()
	return g, nil
}

// AddStop inserts a stop with the given color at position, clamped to
// [0, 1], and returns its id. A stop added at the position of an existing
// stop is ordered after it.
func (g *Gradient) AddStop(c RGBA, position float64) StopID {
	id := g.nextID
	g.nextID++

	s := Stop{Position: clamp01(position), Color: c, ID: id}
	i, _ := slices.BinarySearchFunc(g.stops, s.Position, func(e Stop, p float64) int {
		if e.Position <= p {
			return -1
		}
		return 1
	})
	g.stops = slices.Insert(g.stops, i, s)
	return id
}

// RemoveStop removes the stop with the given id.
func (g *Gradient) RemoveStop(id StopID) error {
	i := g.Index(id)
	if i < 0 {
		return fmt.Errorf("remove stop %d: %w", id, ErrStopNotFound)
	}
	g.stops = slices.Delete(g.stops, i, i+1)
	return nil
}

// MoveStop sets the position of the stop with the given id, clamped to
// [0, 1], re-sorts the stops and returns the stop's new index.
func (g *Gradient) MoveStop(id StopID, position float64) (int, error) {
	i := g.Index(id)
	if i < 0 {
		return -1, fmt.Errorf("move stop %d: %w", id, ErrStopNotFound)
	}
	g.stops[i].Position = clamp01(position)
	g.sortStops()
	return g.Index(id), nil
}

// SetStopColor replaces the color of the stop with the given id.
func (g *Gradient) SetStopColor(id StopID, c RGBA) error {
	i := g.Index(id)
	if i < 0 {
		return fmt.Errorf("set stop %d color: %w", id, ErrStopNotFound)
	}
	g.stops[i].Color = c
	return nil
}

// SetDimensions replaces the target output size. It does not evaluate.
func (g *Gradient) SetDimensions(width, height int) {
	g.width = width
	g.height = height
}

// Width returns the target output width.
func (g *Gradient) Width() int { return g.width }

// Height returns the target output height.
func (g *Gradient) Height() int { return g.height }

// Len returns the number of stops.
func (g *Gradient) Len() int { return len(g.stops) }

// Stops returns a copy of the stops in sorted order.
func (g *Gradient) Stops() []Stop {
	return slices.Clone(g.stops)
}

// At returns the stop at index i in sorted order.
func (g *Gradient) At(i int) Stop { return g.stops[i] }

// Stop returns the stop with the given id.
func (g *Gradient) Stop(id StopID) (Stop, bool) {
	i := g.Index(id)
	if i < 0 {
		return Stop{}, false
	}
	return g.stops[i], true
}

// Index returns the current index of the stop with the given id, or -1.
func (g *Gradient) Index(id StopID) int {
	return slices.IndexFunc(g.stops, func(s Stop) bool { return s.ID == id })
}

// IsEmpty reports whether the gradient cannot be evaluated in its current
// state: fewer than two stops or a non-positive dimension.
func (g *Gradient) IsEmpty() bool {
	return g.Validate() != nil
}

// Validate returns ErrInvalidDimensions or ErrInsufficientStops when the
// gradient cannot be evaluated, and nil otherwise. Dimensions whose RGBA
// buffer size does not fit in an int are invalid.
func (g *Gradient) Validate() error {
	if g.width <= 0 || g.height <= 0 || g.width > math.MaxInt/4/g.height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, g.width, g.height)
	}
	if len(g.stops) < 2 {
		return fmt.Errorf("%w: have %d, need 2", ErrInsufficientStops, len(g.stops))
	}
	return nil
}

// Clone returns a deep copy of the gradient, including its id counter.
func (g *Gradient) Clone() *Gradient {
	c := *g
	c.stops = slices.Clone(g.stops)
	return &c
}

// sortStops restores ascending position order. The sort is stable so tied
// stops keep their relative order.
func (g *Gradient) sortStops() {
	slices.SortStableFunc(g.stops, func(a, b Stop) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
}
