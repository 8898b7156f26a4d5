package sop

import "testing"

func TestIsMasterURN(t *testing.T) {
	if !IsMasterURN("urn:x-evn-master:kennedys") {
		t.Error("expected master URN to be recognized")
	}
	if IsMasterURN("urn:x-evn-tag:kennedys:review:alice") {
		t.Error("tag URN must not be recognized as master")
	}
	if IsMasterURN("http://example.org/kennedys") {
		t.Error("plain IRI must not be recognized as master")
	}
}

func TestIsTagURN(t *testing.T) {
	if !IsTagURN("urn:x-evn-tag:kennedys:review:alice") {
		t.Error("expected tag URN to be recognized")
	}
	if IsTagURN("urn:x-evn-master:kennedys") {
		t.Error("master URN must not be recognized as tag")
	}
}

func TestMasterFromTag(t *testing.T) {
	master, err := MasterFromTag("urn:x-evn-tag:kennedys:review:alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if master != "urn:x-evn-master:kennedys" {
		t.Errorf("got %q", master)
	}

	if _, err := MasterFromTag("urn:x-evn-tag:kennedys"); err == nil {
		t.Error("expected error for truncated tag URN")
	}
	if _, err := MasterFromTag("urn:x-evn-master:kennedys"); err == nil {
		t.Error("expected error for master URN input")
	}
}

func TestTagIdentifier(t *testing.T) {
	id, err := TagIdentifier("urn:x-evn-tag:kennedys:review:alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "urn:x-tags:review" {
		t.Errorf("got %q", id)
	}
}

func TestBuildTagURN(t *testing.T) {
	got := buildTagURN("urn:x-evn-master:kennedys", "review", "alice")
	want := "urn:x-evn-tag:kennedys:review:alice"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
