package regradient

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func positions(g *Gradient) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = g.At(i).Position
	}
	return out
}

func ids(g *Gradient) []StopID {
	out := make([]StopID, g.Len())
	for i := range out {
		out[i] = g.At(i).ID
	}
	return out
}

func TestNewGradientDefaults(t *testing.T) {
	g := NewGradient()

	if g.Width() != DefaultWidth || g.Height() != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", g.Width(), g.Height(), DefaultWidth, DefaultHeight)
	}
	want := []Stop{
		{Position: 0, Color: White, ID: 1},
		{Position: 1, Color: Black, ID: 2},
	}
	if diff := cmp.Diff(want, g.Stops()); diff != "" {
		t.Errorf("stops mismatch (-want +got):\n%s", diff)
	}
	if g.IsEmpty() {
		t.Error("default gradient should not be empty")
	}
}

func TestAddStopClampsAndSorts(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		wantPos  float64
		wantIdx  int
	}{
		{"middle", 0.5, 0.5, 1},
		{"below range", -3, 0, 1}, // after the existing stop at 0
		{"above range", 7, 1, 2},  // after the existing stop at 1
		{"quarter", 0.25, 0.25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGradient()
			id := g.AddStop(Red, tt.position)

			s, ok := g.Stop(id)
			if !ok {
				t.Fatalf("Stop(%d) not found", id)
			}
			if s.Position != tt.wantPos {
				t.Errorf("position = %v, want %v", s.Position, tt.wantPos)
			}
			if got := g.Index(id); got != tt.wantIdx {
				t.Errorf("Index = %d, want %d", got, tt.wantIdx)
			}
		})
	}
}

func TestAddStopUniqueIDs(t *testing.T) {
	g := NewEmptyGradient(4, 4)
	seen := make(map[StopID]bool)
	for i := 0; i < 300; i++ {
		id := g.AddStop(White, float64(i%7)/7)
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
}

func TestRemoveStop(t *testing.T) {
	g := NewGradient()
	mid := g.AddStop(Red, 0.5)

	if err := g.RemoveStop(mid); err != nil {
		t.Fatalf("RemoveStop() = %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	if _, ok := g.Stop(mid); ok {
		t.Error("removed stop still present")
	}

	err := g.RemoveStop(mid)
	if !errors.Is(err, ErrStopNotFound) {
		t.Errorf("second RemoveStop() = %v, want ErrStopNotFound", err)
	}
	if g.Len() != 2 {
		t.Errorf("failed remove changed the gradient: Len() = %d", g.Len())
	}
}

func TestMoveStopKeepsIdentity(t *testing.T) {
	g := NewEmptyGradient(16, 1)
	a := g.AddStop(Red, 0.1)
	b := g.AddStop(Green, 0.5)
	c := g.AddStop(Blue, 0.9)

	idx, err := g.MoveStop(a, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("MoveStop index = %d, want 2", idx)
	}
	if diff := cmp.Diff([]StopID{b, c, a}, ids(g)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	idx, err = g.MoveStop(c, -1)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("MoveStop index = %d, want 0", idx)
	}
	if diff := cmp.Diff([]float64{0, 0.5, 0.95}, positions(g)); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	s, _ := g.Stop(a)
	if s.Color != Red {
		t.Errorf("stop %d color = %v, want red", a, s.Color)
	}
}

func TestMoveStopNotFound(t *testing.T) {
	g := NewGradient()
	before := g.Stops()

	idx, err := g.MoveStop(999, 0.5)
	if !errors.Is(err, ErrStopNotFound) {
		t.Errorf("MoveStop() = %v, want ErrStopNotFound", err)
	}
	if idx != -1 {
		t.Errorf("index = %d, want -1", idx)
	}
	if diff := cmp.Diff(before, g.Stops()); diff != "" {
		t.Errorf("failed move mutated gradient:\n%s", diff)
	}
}

func TestTiesAreStable(t *testing.T) {
	g := NewEmptyGradient(8, 1)
	a := g.AddStop(Red, 0.5)
	b := g.AddStop(Green, 0.5)
	c := g.AddStop(Blue, 0.2)

	if diff := cmp.Diff([]StopID{c, a, b}, ids(g)); diff != "" {
		t.Fatalf("insertion order mismatch (-want +got):\n%s", diff)
	}

	// c was already ahead of a and b, so the stable sort keeps it there.
	if _, err := g.MoveStop(c, 0.5); err != nil {
		t.Fatal(err)
	}
	want := []StopID{c, a, b}
	for i := 0; i < 5; i++ {
		if _, err := g.MoveStop(a, 0.5); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, ids(g)); diff != "" {
			t.Fatalf("tie order changed on repeat %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestSetStopColor(t *testing.T) {
	g := NewGradient()
	id := g.At(0).ID

	if err := g.SetStopColor(id, Blue); err != nil {
		t.Fatal(err)
	}
	if got := g.At(0).Color; got != Blue {
		t.Errorf("color = %v, want blue", got)
	}
	if err := g.SetStopColor(12345, Red); !errors.Is(err, ErrStopNotFound) {
		t.Errorf("SetStopColor(unknown) = %v, want ErrStopNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Gradient
		wantErr error
	}{
		{"default", NewGradient, nil},
		{"no stops", func() *Gradient { return NewEmptyGradient(4, 4) }, ErrInsufficientStops},
		{"one stop", func() *Gradient {
			g := NewEmptyGradient(4, 4)
			g.AddStop(Red, 0.5)
			return g
		}, ErrInsufficientStops},
		{"zero width", func() *Gradient {
			g := NewGradient()
			g.SetDimensions(0, 4)
			return g
		}, ErrInvalidDimensions},
		{"negative height", func() *Gradient {
			g := NewGradient()
			g.SetDimensions(4, -1)
			return g
		}, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			err := g.Validate()
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if g.IsEmpty() != (tt.wantErr != nil) {
				t.Errorf("IsEmpty() = %v, want %v", g.IsEmpty(), tt.wantErr != nil)
			}
		})
	}
}

func TestRestoreGradient(t *testing.T) {
	stored := []Stop{
		{Position: 1.5, Color: Black, ID: 40},
		{Position: 0, Color: White, ID: 7},
		{Position: 0.5, Color: Red, ID: 12},
	}

	g, err := RestoreGradient(stored, 32, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Stop{
		{Position: 0, Color: White, ID: 7},
		{Position: 0.5, Color: Red, ID: 12},
		{Position: 1, Color: Black, ID: 40},
	}
	if diff := cmp.Diff(want, g.Stops()); diff != "" {
		t.Errorf("restored stops mismatch (-want +got):\n%s", diff)
	}
	if id := g.AddStop(Blue, 0.2); id != 41 {
		t.Errorf("next id = %d, want 41", id)
	}

	_, err = RestoreGradient([]Stop{{ID: 3}, {ID: 3, Position: 1}}, 4, 4)
	if !errors.Is(err, ErrDuplicateStopID) {
		t.Errorf("duplicate ids: err = %v, want ErrDuplicateStopID", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGradient()
	c := g.Clone()

	c.AddStop(Red, 0.5)
	c.SetDimensions(1, 1)

	if g.Len() != 2 || g.Width() != DefaultWidth {
		t.Error("mutating the clone changed the original")
	}
	if g.AddStop(Blue, 0.3) != c.AddStop(Blue, 0.3)-1 {
		t.Error("clone should carry the id counter")
	}
}

func TestStopsReturnsCopy(t *testing.T) {
	g := NewGradient()
	s := g.Stops()
	s[0].Position = 0.9

	if g.At(0).Position != 0 {
		t.Error("Stops() exposed internal storage")
	}
}
