// Package dropzone decides whether drag-and-drop events land on the drop
// target.
//
// The gate is a two-state machine:
//
//	state   event           condition          next    drop accepted
//	-----   -----           ---------          ----    -------------
//	any     Enter / Over    hit(position)      Active  -
//	any     Enter / Over    !hit(position)     Idle    -
//	any     Leave           -                  Idle    -
//	any     Drop            hit(position)      Idle    yes
//	any     Drop            !hit(position)     Idle    no
//	any     Other           -                  Idle    -
//	any     malformed       -                  Idle    no (logged)
//
// A drop is judged only by its own position; the state left by earlier
// Over events is never consulted.
package dropzone

import (
	"log/slog"
)

// Kind is the type of a drag event.
type Kind int

const (
	KindOther Kind = iota
	KindEnter
	KindOver
	KindLeave
	KindDrop
)

func (k Kind) String() string {
	switch k {
	case KindEnter:
		return "enter"
	case KindOver:
		return "over"
	case KindLeave:
		return "leave"
	case KindDrop:
		return "drop"
	}
	return "other"
}

// State is the gate's highlight state.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Point is a pointer position.
type Point struct {
	X, Y int
}

// Event is a drag event as delivered by the host. Position is nil and Paths
// is nil when the host omitted them.
type Event struct {
	Kind     Kind
	Position *Point
	Paths    []string
}

// At is a convenience constructor for positioned events.
func At(kind Kind, x, y int) Event {
	return Event{Kind: kind, Position: &Point{X: x, Y: y}}
}

// DropAt builds a drop event carrying paths.
func DropAt(x, y int, paths []string) Event {
	if paths == nil {
		paths = []string{}
	}
	return Event{Kind: KindDrop, Position: &Point{X: x, Y: y}, Paths: paths}
}

// HitTester reports whether p lies over the drop target.
type HitTester interface {
	Hit(p Point) bool
}

// HitFunc adapts a function to HitTester.
type HitFunc func(Point) bool

// Hit implements HitTester.
func (f HitFunc) Hit(p Point) bool { return f(p) }

// Rect is an axis-aligned target region. The zero Rect contains nothing.
type Rect struct {
	X, Y, Width, Height int
}

// Hit implements HitTester.
func (r Rect) Hit(p Point) bool {
	return r.Width > 0 && r.Height > 0 &&
		p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Decision is the gate's verdict on one event.
type Decision struct {
	Accept bool
	Paths  []string
}

// Gate tracks whether the pointer is over the drop target.
type Gate struct {
	target HitTester
	state  State
	logger *slog.Logger
}

// NewGate builds a Gate over target.
func NewGate(target HitTester, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{target: target, logger: logger}
}

// SetTarget replaces the hit tester, e.g. after a layout change.
func (g *Gate) SetTarget(target HitTester) {
	g.target = target
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Active reports whether the target should be highlighted.
func (g *Gate) Active() bool {
	return g.state == Active
}

// Handle applies ev and reports whether a drop was accepted.
func (g *Gate) Handle(ev Event) Decision {
	switch ev.Kind {
	case KindEnter, KindOver:
		if ev.Position == nil {
			return g.malformed(ev, "missing position")
		}
		if g.hit(*ev.Position) {
			g.state = Active
		} else {
			g.state = Idle
		}
		return Decision{}

	case KindLeave:
		g.state = Idle
		return Decision{}

	case KindDrop:
		if ev.Position == nil {
			return g.malformed(ev, "missing position")
		}
		if ev.Paths == nil {
			return g.malformed(ev, "missing paths")
		}
		g.state = Idle
		if !g.hit(*ev.Position) {
			g.logger.Debug("drop outside target ignored", "x", ev.Position.X, "y", ev.Position.Y)
			return Decision{}
		}
		paths := make([]string, len(ev.Paths))
		copy(paths, ev.Paths)
		return Decision{Accept: true, Paths: paths}
	}

	g.state = Idle
	return Decision{}
}

func (g *Gate) hit(p Point) bool {
	return g.target != nil && g.target.Hit(p)
}

func (g *Gate) malformed(ev Event, reason string) Decision {
	g.state = Idle
	g.logger.Warn("malformed drag event", "kind", ev.Kind.String(), "reason", reason)
	return Decision{}
}
