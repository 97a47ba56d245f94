package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/imagefile"
	"github.com/five82/imgqueue/internal/session"
)

type memPrefs struct {
	data map[string][]byte
}

func (m *memPrefs) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memPrefs) Set(_ context.Context, key string, value []byte) error {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

type okConverter struct{ calls int }

func (c *okConverter) Convert(_ context.Context, req convert.Request) (string, error) {
	c.calls++
	return req.OutputPath, nil
}

type nopOpener struct{}

func (nopOpener) Open(context.Context, string) error { return nil }

func newTestModel(t *testing.T) (Model, *session.Session, *okConverter) {
	t.Helper()
	conv := &okConverter{}
	sess := session.New(session.Options{
		Prefs:     &memPrefs{},
		Converter: conv,
		Opener:    nopOpener{},
		SizeFunc:  func(string) (int64, error) { return 2048, nil },
	})
	m := New(Options{Session: sess})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model), sess, conv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestView_BeforeResize(t *testing.T) {
	sess := session.New(session.Options{})
	m := New(Options{Session: sess})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before resize = %q", got)
	}
}

func TestView_RendersCountLabelAndStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "QUEUE (0 FILES)") {
		t.Fatalf("view missing count label")
	}
	if !strings.Contains(view, session.StatusReady) {
		t.Fatalf("view missing status line")
	}
}

func TestPaste_DropsAtLastPointer(t *testing.T) {
	m, sess, _ := newTestModel(t)
	q := computeLayout(120, 30).queue

	m, _ = update(t, m, tea.MouseMsg{X: q.X + 2, Y: q.Y + 2, Action: tea.MouseActionMotion})
	if !m.snapshot.DropActive {
		t.Fatalf("motion over queue pane should highlight the drop zone")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'/in/my photo.png' /in/b.txt"), Paste: true})
	snap := sess.Snapshot()
	if len(snap.Queue) != 1 || snap.Queue[0].ID != "/in/my photo.png" {
		t.Fatalf("Queue = %#v", snap.Queue)
	}
	if m.snapshot.DropActive {
		t.Fatalf("drop should clear highlight")
	}
	if !strings.Contains(m.View(), "QUEUE (1 FILE)") {
		t.Fatalf("view not refreshed after drop")
	}
}

func TestPaste_OutsideDropZoneIgnored(t *testing.T) {
	m, sess, _ := newTestModel(t)
	s := computeLayout(120, 30).settings

	m, _ = update(t, m, tea.MouseMsg{X: s.X + 2, Y: s.Y + 2, Action: tea.MouseActionMotion})
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/in/a.png"), Paste: true})
	if n := len(sess.Snapshot().Queue); n != 0 {
		t.Fatalf("drop over settings pane queued %d files", n)
	}
}

func TestPaste_WithoutPointerUsesQueuePane(t *testing.T) {
	m, sess, _ := newTestModel(t)
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/in/a.png"), Paste: true})
	if n := len(sess.Snapshot().Queue); n != 1 {
		t.Fatalf("queue length = %d, want 1", n)
	}
}

func TestBlur_ClearsHighlight(t *testing.T) {
	m, _, _ := newTestModel(t)
	q := computeLayout(120, 30).queue
	m, _ = update(t, m, tea.MouseMsg{X: q.X + 1, Y: q.Y + 1, Action: tea.MouseActionMotion})
	m, _ = update(t, m, tea.BlurMsg{})
	if m.snapshot.DropActive {
		t.Fatalf("blur should clear highlight")
	}
}

func TestAddFilesPicker(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m, _ = update(t, m, runes("a"))
	if m.modal == nil {
		t.Fatalf("a should open the picker")
	}
	m, _ = update(t, m, runes("/in/x.webp"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal != nil {
		t.Fatalf("enter should close the picker")
	}
	if cmd == nil {
		t.Fatalf("expected picker result command")
	}
	m, _ = update(t, m, cmd())

	if q := sess.Snapshot().Queue; len(q) != 1 || q[0].FormatTag != "webp" {
		t.Fatalf("Queue = %#v", q)
	}
	if m.snapshot.Status != "1 file(s) added to queue." {
		t.Fatalf("Status = %q", m.snapshot.Status)
	}
}

func TestDestinationPicker_CancelIsNoop(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m, _ = update(t, m, runes("o"))
	m, _ = update(t, m, runes("/out"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, cmd())
	if sess.Snapshot().Settings.DestinationSet() {
		t.Fatalf("cancelled picker set a destination")
	}

	m, _ = update(t, m, runes("o"))
	m, _ = update(t, m, runes("/out"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_, _ = update(t, m, cmd())
	if got := sess.Snapshot().Settings.DestinationFolder; got != "/out" {
		t.Fatalf("DestinationFolder = %q", got)
	}
}

func TestConvertKey_RunsBatchAndShowsSuccess(t *testing.T) {
	m, sess, conv := newTestModel(t)
	if _, err := sess.AddPaths([]string{"/in/a.png", "/in/b.png"}); err != nil {
		t.Fatalf("AddPaths: %v", err)
	}
	sess.SetDestination(context.Background(), "/out")
	m.syncSnapshot()

	m, cmd := update(t, m, runes("c"))
	if cmd == nil {
		t.Fatalf("c should return the convert command")
	}
	m, _ = update(t, m, cmd())

	if conv.calls != 2 {
		t.Fatalf("converter calls = %d, want 2", conv.calls)
	}
	if !m.snapshot.SuccessOpen || !strings.Contains(m.View(), "2/2") {
		t.Fatalf("success modal not shown")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.snapshot.SuccessOpen {
		t.Fatalf("enter should dismiss the success modal")
	}
	if len(m.snapshot.Queue) != 0 {
		t.Fatalf("queue not cleared")
	}
}

func TestConvertKey_GuidanceWhenEmpty(t *testing.T) {
	m, _, conv := newTestModel(t)
	m, cmd := update(t, m, runes("c"))
	m, _ = update(t, m, cmd())
	if m.snapshot.Status != "Add files to the queue first." {
		t.Fatalf("Status = %q", m.snapshot.Status)
	}
	if conv.calls != 0 {
		t.Fatalf("backend called for empty queue")
	}
}

func TestQueueKeys_RemoveAndClear(t *testing.T) {
	m, sess, _ := newTestModel(t)
	if _, err := sess.AddPaths([]string{"/a.png", "/b.png", "/c.png"}); err != nil {
		t.Fatalf("AddPaths: %v", err)
	}
	m.syncSnapshot()

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("x"))
	q := sess.Snapshot().Queue
	if len(q) != 2 || q[0].ID != "/a.png" || q[1].ID != "/c.png" {
		t.Fatalf("Queue after remove = %#v", q)
	}
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1", m.selectedRow)
	}

	m, _ = update(t, m, runes("C"))
	if len(m.snapshot.Queue) != 0 || m.snapshot.Status != session.StatusCleared {
		t.Fatalf("after clear: %d %q", len(m.snapshot.Queue), m.snapshot.Status)
	}
}

func TestSettingsKeys(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSettings {
		t.Fatalf("tab should focus settings")
	}

	m, _ = update(t, m, runes("j")) // format
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := sess.Snapshot().Settings.OutputFormat; got != imagefile.JPG {
		t.Fatalf("OutputFormat = %q, want jpg", got)
	}

	m, _ = update(t, m, runes("j")) // quality
	m, _ = update(t, m, runes("+"))
	if got := sess.Snapshot().Settings.Quality; got != 100 {
		t.Fatalf("Quality = %d, want 100 (clamped)", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := sess.Snapshot().Settings.Quality; got != 99 {
		t.Fatalf("Quality = %d, want 99", got)
	}

	m, _ = update(t, m, runes("j")) // strip metadata
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if sess.Snapshot().Settings.StripMetadata {
		t.Fatalf("space should toggle strip metadata off")
	}

	m, _ = update(t, m, runes("j")) // transparency
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if sess.Snapshot().Settings.PreserveTransparency {
		t.Fatalf("enter should toggle transparency off")
	}
}

func TestCycleTheme_Persists(t *testing.T) {
	m, sess, _ := newTestModel(t)
	m, _ = update(t, m, runes("T"))
	if m.theme.Name != NextTheme(DefaultThemeName) {
		t.Fatalf("theme = %q", m.theme.Name)
	}
	if got := sess.Snapshot().Theme; got != m.theme.Name {
		t.Fatalf("session theme = %q, want %q", got, m.theme.Name)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = update(t, m, runes("j"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := update(t, m, runes("e"))
	if cmd == nil {
		t.Fatalf("e should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("e returned %T, want tea.QuitMsg", cmd())
	}
}
