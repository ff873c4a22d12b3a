package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Sub(t *testing.T) {
	got := Vec2{5, 5}.Sub(Vec2{2, 3})
	want := Vec2{3, 2}
	if got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec2NonNegative(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		v    Vec2
		want bool
	}{
		{Vec2{0, 0}, true},
		{Vec2{100, 50}, true},
		{Vec2{-1, 0}, false},
		{Vec2{0, -0.5}, false},
		{Vec2{nan, 0}, false},
	}

	for _, tt := range tests {
		if got := tt.v.NonNegative(); got != tt.want {
			t.Errorf("%v.NonNegative() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVec2Floor(t *testing.T) {
	x, y := Vec2{12.9, 3}.Floor()
	if x != 12 || y != 3 {
		t.Errorf("Vec2.Floor() = (%d, %d), want (12, 3)", x, y)
	}
	if !(Vec2{}).IsZero() {
		t.Error("zero vector should report IsZero")
	}
}
