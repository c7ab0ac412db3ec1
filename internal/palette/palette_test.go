package palette

import (
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestRangeOf(t *testing.T) {
	bodies := []dynamo.Body{{Mass: 3}, {Mass: 0.5}, {Mass: 12}}
	if r := RangeOf(bodies); r != (Range{Min: 0.5, Max: 12}) {
		t.Errorf("RangeOf = %+v", r)
	}
	if r := RangeOf(nil); r != (Range{}) {
		t.Errorf("empty RangeOf = %+v", r)
	}
}

func TestShade(t *testing.T) {
	r := Range{Min: 1, Max: 100}

	light, heavy := r.Shade(1), r.Shade(100)
	if light == heavy {
		t.Error("extremes should differ")
	}
	if !light.IsValid() || !heavy.IsValid() {
		t.Error("shades must be valid RGB")
	}
	if r.Shade(-50) != light || r.Shade(1e6) != heavy {
		t.Error("out of range masses should clamp to the extremes")
	}

	flat := Range{Min: 1, Max: 1}
	if flat.Hex(1) != flat.Hex(1000) {
		t.Error("degenerate range should use one colour")
	}
	if h := r.Hex(50); len(h) != 7 || h[0] != '#' {
		t.Errorf("unexpected hex %q", h)
	}
}
