package rigid

import (
	"math"
	"testing"
)

func TestVecArithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); got != (Vec3{5, -3, 9}) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 7, -3}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Dot(b); got != 1*4+2*-5+3*6 {
		t.Errorf("Dot: got %v", got)
	}
}

func TestVecLength(t *testing.T) {
	v := Vec3{3, 4, 0}
	if got := v.Length(); got != 5 {
		t.Errorf("expected length 5, got %v", got)
	}
}

func TestVecIsFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name string
		v    Vec3
		want bool
	}{
		{"zero", Vec3{}, true},
		{"ordinary", Vec3{1, -2, 3.5}, true},
		{"nan x", Vec3{nan, 0, 0}, false},
		{"nan y", Vec3{0, nan, 0}, false},
		{"nan z", Vec3{0, 0, nan}, false},
		{"pos inf", Vec3{inf, 0, 0}, false},
		{"neg inf", Vec3{0, -inf, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
