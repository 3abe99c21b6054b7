package e2e

import (
	"context"
	"strings"
	"testing"
)

func TestRenderElement(t *testing.T) {
	h := newHarnessEnv(t)

	ref := renderButton(t, h, `<Button label="First"/>`)

	if !strings.HasPrefix(string(ref), "hd-") {
		t.Errorf("container ref = %q, want hd- prefix", ref)
	}

	containers := h.env.Containers()
	if len(containers) != 1 || containers[0] != ref {
		t.Errorf("containers = %v, want [%s]", containers, ref)
	}

	fc := buttonCoverage(t, h)
	if fc.F["0"] != 1 {
		t.Errorf("Button calls = %d, want 1", fc.F["0"])
	}
	if fc.S["0"] != 1 || fc.S["1"] != 1 || fc.S["2"] != 1 {
		t.Errorf("statement counters = %v, want all 1", fc.S)
	}
	if fc.B["0"][0] != 1 || fc.B["0"][1] != 0 {
		t.Errorf("branch arms = %v, want [1 0]", fc.B["0"])
	}
}

func TestRenderThunk(t *testing.T) {
	h := newHarnessEnv(t)

	ref := renderButton(t, h, `() => <Button label="Lazy"/>`)

	if !strings.HasPrefix(string(ref), "hd-") {
		t.Errorf("container ref = %q, want hd- prefix", ref)
	}

	fc := buttonCoverage(t, h)
	if fc.F["0"] != 1 {
		t.Errorf("Button calls = %d, want 1", fc.F["0"])
	}
}

func TestRenderComposite(t *testing.T) {
	h := newHarnessEnv(t)

	renderButton(t, h, `<section><Button/><Button label="Third"/></section>`)

	fc := buttonCoverage(t, h)
	if fc.F["0"] != 2 {
		t.Errorf("Button calls = %d, want 2", fc.F["0"])
	}
	if fc.B["0"][0] != 1 || fc.B["0"][1] != 1 {
		t.Errorf("branch arms = %v, want [1 1]", fc.B["0"])
	}
}

func TestDisposeRemovesRemoteNodes(t *testing.T) {
	h := newHarnessEnv(t)
	ctx := context.Background()

	first := renderButton(t, h, `<Button label="One"/>`)
	second := renderButton(t, h, `<Button label="Two"/>`)

	removed, err := h.env.DisposeContainers(ctx, first)
	if err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	containers := h.env.Containers()
	if len(containers) != 1 || containers[0] != second {
		t.Errorf("containers = %v, want [%s]", containers, second)
	}

	// The first node is gone from the remote page, so disposing it again
	// removes nothing.
	removed, err = h.env.DisposeContainers(ctx, first)
	if err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 for already disposed container", removed)
	}

	removed, err = h.env.DisposeContainers(ctx)
	if err != nil {
		t.Fatalf("dispose all failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(h.env.Containers()) != 0 {
		t.Errorf("containers = %v, want none", h.env.Containers())
	}
}
