package dropzone

import (
	"reflect"
	"runtime"
	"testing"
)

var zone = Rect{X: 10, Y: 5, Width: 20, Height: 10}

func TestRectHit(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 5}, true},
		{Point{29, 14}, true},
		{Point{30, 14}, false},
		{Point{29, 15}, false},
		{Point{9, 5}, false},
	}
	for _, tt := range tests {
		if got := zone.Hit(tt.p); got != tt.want {
			t.Fatalf("Hit(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if (Rect{}).Hit(Point{}) {
		t.Fatalf("zero Rect should contain nothing")
	}
}

func TestGate_OverTracksHitTest(t *testing.T) {
	g := NewGate(zone, nil)

	g.Handle(At(KindEnter, 12, 6))
	if !g.Active() {
		t.Fatalf("enter inside zone should activate")
	}
	g.Handle(At(KindOver, 0, 0))
	if g.Active() {
		t.Fatalf("over outside zone should deactivate without a leave event")
	}
	g.Handle(At(KindOver, 15, 8))
	if !g.Active() {
		t.Fatalf("over inside zone should reactivate")
	}
	g.Handle(Event{Kind: KindLeave})
	if g.Active() {
		t.Fatalf("leave should deactivate")
	}
}

func TestGate_DropHitTestIsAuthoritative(t *testing.T) {
	g := NewGate(zone, nil)
	g.Handle(At(KindOver, 15, 8))
	if !g.Active() {
		t.Fatalf("precondition: over inside zone should activate")
	}

	d := g.Handle(DropAt(100, 100, []string{"a.png"}))
	if d.Accept {
		t.Fatalf("drop outside zone accepted after an inside over")
	}
	if g.Active() {
		t.Fatalf("drop should always deactivate")
	}
}

func TestGate_DropWithoutPriorOverIsAccepted(t *testing.T) {
	g := NewGate(zone, nil)
	d := g.Handle(DropAt(12, 6, []string{"a.png", "b.exe"}))
	if !d.Accept {
		t.Fatalf("drop inside zone rejected")
	}
	if !reflect.DeepEqual(d.Paths, []string{"a.png", "b.exe"}) {
		t.Fatalf("Paths = %v", d.Paths)
	}
	if g.Active() {
		t.Fatalf("drop should deactivate")
	}
}

func TestGate_MalformedEventsDeactivate(t *testing.T) {
	malformed := []Event{
		{Kind: KindOver},
		{Kind: KindEnter},
		{Kind: KindDrop, Paths: []string{"a.png"}},
		{Kind: KindDrop, Position: &Point{12, 6}},
	}
	for _, ev := range malformed {
		g := NewGate(zone, nil)
		g.Handle(At(KindOver, 12, 6))
		d := g.Handle(ev)
		if d.Accept {
			t.Fatalf("malformed %s event accepted", ev.Kind)
		}
		if g.State() != Idle {
			t.Fatalf("malformed %s event left state %s", ev.Kind, g.State())
		}
	}
}

func TestGate_OtherEventDeactivates(t *testing.T) {
	g := NewGate(zone, nil)
	g.Handle(At(KindOver, 12, 6))
	g.Handle(Event{Kind: KindOther})
	if g.Active() {
		t.Fatalf("other event should deactivate")
	}
}

func TestGate_NilTargetRejects(t *testing.T) {
	g := NewGate(nil, nil)
	if d := g.Handle(DropAt(1, 1, []string{"a.png"})); d.Accept {
		t.Fatalf("drop accepted without a target")
	}
	g.SetTarget(HitFunc(func(Point) bool { return true }))
	if d := g.Handle(DropAt(1, 1, []string{"a.png"})); !d.Accept {
		t.Fatalf("drop rejected after SetTarget")
	}
}

func TestGate_DecisionPathsAreCopied(t *testing.T) {
	g := NewGate(zone, nil)
	paths := []string{"a.png"}
	d := g.Handle(DropAt(12, 6, paths))
	paths[0] = "changed.png"
	if d.Paths[0] != "a.png" {
		t.Fatalf("decision aliases caller slice")
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "/tmp/a.png", []string{"/tmp/a.png"}},
		{"space separated", "/tmp/a.png /tmp/b.jpg", []string{"/tmp/a.png", "/tmp/b.jpg"}},
		{"single quoted", "'/tmp/my pic.png' '/tmp/b.jpg'", []string{"/tmp/my pic.png", "/tmp/b.jpg"}},
		{"double quoted", `"/tmp/my pic.png"`, []string{"/tmp/my pic.png"}},
		{"newlines and uris", "file:///tmp/a%20b.png\r\nfile:///tmp/c.webp\n", []string{"/tmp/a b.png", "/tmp/c.webp"}},
		{"extra whitespace", "  /a.png   \t /b.png  ", []string{"/a.png", "/b.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePayload(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParsePayload(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePayload_BackslashEscapes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a path separator on windows")
	}
	got := ParsePayload(`/tmp/my\ pic.png /tmp/it\'s.jpg`)
	want := []string{"/tmp/my pic.png", "/tmp/it's.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParsePayload = %q, want %q", got, want)
	}
}
