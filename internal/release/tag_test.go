package release_test

import (
	"testing"

	"github.com/maplumi/ipc-areas/internal/release"
)

// TestResolveTag_EnvWins verifies CDN_RELEASE_TAG takes priority over git.
func TestResolveTag_EnvWins(t *testing.T) {
	t.Setenv("CDN_RELEASE_TAG", "v2.0.1")

	if got := release.ResolveTag(); got != "v2.0.1" {
		t.Errorf("expected v2.0.1, got %s", got)
	}
}

// TestResolveTag_NeverEmpty verifies a tag is always produced, falling back
// to "main" outside a git checkout.
func TestResolveTag_NeverEmpty(t *testing.T) {
	t.Setenv("CDN_RELEASE_TAG", "")

	if got := release.ResolveTag(); got == "" {
		t.Error("expected a non-empty tag")
	}
}
