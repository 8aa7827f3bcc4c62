package session_test

import (
	"testing"

	"tempo/internal/platform/session"
)

func TestInstallIfCurrentRejectsStaleGeneration(t *testing.T) {
	h := session.NewHolder()
	_, gen := h.Current()

	// A logout between the read and the conditional install must win.
	h.Clear()

	if h.InstallIfCurrent(session.Session{Token: "late-refresh"}, gen) {
		t.Fatal("stale install was accepted")
	}
	if cur, _ := h.Current(); cur.Authenticated() {
		t.Fatal("cleared session was resurrected")
	}
}

func TestEveryWriteAdvancesGeneration(t *testing.T) {
	h := session.NewHolder()
	_, g0 := h.Current()
	g1 := h.Install(session.Session{Token: "a"})
	g2 := h.Clear()
	if !(g0 < g1 && g1 < g2) {
		t.Fatalf("generations not monotonic: %d %d %d", g0, g1, g2)
	}
}

func TestInstallIfCurrentAcceptsMatchingGeneration(t *testing.T) {
	h := session.NewHolder()
	_, gen := h.Current()
	if !h.InstallIfCurrent(session.Session{Token: "tok"}, gen) {
		t.Fatal("current install was rejected")
	}
	cur, _ := h.Current()
	if cur.Token != "tok" {
		t.Fatalf("token = %q", cur.Token)
	}
}
