package asset

import "github.com/gogpu/regradient"

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R float64 `json:"r" toml:"r" yaml:"r"`
	G float64 `json:"g" toml:"g" yaml:"g"`
	B float64 `json:"b" toml:"b" yaml:"b"`
	A float64 `json:"a" toml:"a" yaml:"a"`
}

// Node is one stored stop.
type Node struct {
	Color   Color   `json:"Color" toml:"Color" yaml:"Color"`
	Percent float64 `json:"Percent" toml:"Percent" yaml:"Percent"`
	ID      int64   `json:"ID" toml:"ID" yaml:"ID"`
}

// Size is the stored output size.
type Size struct {
	X int `json:"x" toml:"x" yaml:"x"`
	Y int `json:"y" toml:"y" yaml:"y"`
}

// Record is the persisted form of a gradient.
type Record struct {
	Nodes []Node `json:"Nodes" toml:"Nodes" yaml:"Nodes"`
	Size  Size   `json:"Size" toml:"Size" yaml:"Size"`
}

// FromGradient captures the stops and size of g in sorted order.
func FromGradient(g *regradient.Gradient) Record {
	stops := g.Stops()
	r := Record{
		Nodes: make([]Node, len(stops)),
		Size:  Size{X: g.Width(), Y: g.Height()},
	}
	for i, s := range stops {
		r.Nodes[i] = Node{
			Color:   Color{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Color.A},
			Percent: s.Position,
			ID:      int64(s.ID),
		}
	}
	return r
}

// Gradient rebuilds the gradient described by r. A record with fewer than
// two nodes or a zero size yields an empty gradient, not an error; stop ids
// must be unique.
func (r Record) Gradient() (*regradient.Gradient, error) {
	stops := make([]regradient.Stop, len(r.Nodes))
	for i, n := range r.Nodes {
		stops[i] = regradient.Stop{
			Position: n.Percent,
			Color:    regradient.RGBA{R: n.Color.R, G: n.Color.G, B: n.Color.B, A: n.Color.A},
			ID:       regradient.StopID(n.ID),
		}
	}
	return regradient.RestoreGradient(stops, r.Size.X, r.Size.Y)
}
