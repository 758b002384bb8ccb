package task

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Done "); err != nil || s != StatusDone {
		t.Fatalf("expected done, got %q err %v", s, err)
	}
	if s, err := ParseStatus(""); err != nil || s != StatusOpen {
		t.Fatalf("expected open default, got %q err %v", s, err)
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestPatchApply(t *testing.T) {
	est := 30
	tk := New("write the report")
	tk.EstimatedMinutes = &est

	title := "write the quarterly report"
	rank := 2
	focus := true
	p := Patch{Title: &title, IsFocus: &focus, FocusRank: &rank}
	if err := p.Apply(tk); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tk.Title != title || !tk.IsFocus || tk.FocusRank == nil || *tk.FocusRank != 2 {
		t.Fatalf("patch not applied: %+v", tk)
	}

	p = Patch{ClearFocusRank: true}
	if err := p.Apply(tk); err != nil {
		t.Fatalf("apply clear: %v", err)
	}
	if tk.FocusRank != nil {
		t.Fatalf("expected cleared focus_rank")
	}
}

func TestPatchRejectsEmptyTitle(t *testing.T) {
	tk := New("keep me")
	empty := "   "
	if err := (Patch{Title: &empty}).Apply(tk); err == nil {
		t.Fatalf("expected empty title to be rejected")
	}
	if tk.Title != "keep me" {
		t.Fatalf("task mutated on validation failure")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	when, _ := ParseTime("2026-03-01T09:30:00Z")
	ts := Timestamp{Time: when}
	data, err := json.Marshal(&ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Timestamp
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(when) {
		t.Fatalf("expected %v got %v", when, got.Time)
	}

	var zero Timestamp
	data, _ = json.Marshal(&zero)
	if string(data) != `""` {
		t.Fatalf("zero timestamp should serialise empty, got %s", data)
	}
}

func TestValidate(t *testing.T) {
	tk := New("ok")
	bad := -1
	tk.EstimatedMinutes = &bad
	if err := tk.Validate(); err == nil {
		t.Fatalf("expected negative estimate to fail validation")
	}
	tk.EstimatedMinutes = nil
	tk.Created = Timestamp{Time: time.Now()}
	if err := tk.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}
