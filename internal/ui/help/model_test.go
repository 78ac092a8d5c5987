package help

import (
	"strings"
	"testing"

	"github.com/nhle/unread-tracker/internal/keys"
)

func TestView_ExplainsKeptUnreadLifecycle(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)

	out := m.View()
	if !strings.Contains(out, "Unread Tracker") {
		t.Errorf("expected the help title in output, got:\n%s", out)
	}
	if !strings.Contains(out, "stay in the") {
		t.Errorf("expected the kept-unread explanation in output, got:\n%s", out)
	}
	if !strings.Contains(out, "unread") || !strings.Contains(out, "merged") {
		t.Errorf("expected the state legend in output, got:\n%s", out)
	}
}

func TestSetSize_AppliesToRender(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetSize(120, 50)

	out := m.View()
	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(line)); w > 120 {
			t.Fatalf("line wider than the view: %d runes", w)
		}
	}
}
