package model

import (
	"errors"
	"testing"
)

func TestParseItemState(t *testing.T) {
	for _, raw := range []string{"open", "closed", "merged", "draft"} {
		state, err := ParseItemState(raw)
		if err != nil {
			t.Fatalf("ParseItemState(%q): %v", raw, err)
		}
		if string(state) != raw {
			t.Fatalf("ParseItemState(%q) = %q", raw, state)
		}
	}
}

func TestParseItemState_UnknownVariant(t *testing.T) {
	_, err := ParseItemState("locked")
	if err == nil {
		t.Fatal("expected error for unknown state")
	}
	var unknownErr *UnknownStateError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *UnknownStateError", err)
	}
	if unknownErr.State != "locked" {
		t.Fatalf("State = %q, want %q", unknownErr.State, "locked")
	}
}
