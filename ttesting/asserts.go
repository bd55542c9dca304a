package ttesting

import (
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualBool(t *testing.T, name string, got, want bool) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualFloat64(t *testing.T, name string, got, want float64) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %f; want %f", got, want)
		}
	})
}

func AssertInRangeInt(t *testing.T, name string, got, wantMin, wantMax int) {
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %d; want [%d,%d]", got, wantMin, wantMax)
		}
	})
}
