package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalize(t *testing.T) {
	n := V(3, 0, 4).Normalize()
	if math.Abs(n.Len()-1) > eps {
		t.Fatalf("len = %f, want 1", n.Len())
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("zero vector normalized to %+v", z)
	}
}

func TestDistXZIgnoresDepth(t *testing.T) {
	a := V(0, -20, 0)
	b := V(3, 5, 4)
	if d := a.DistXZ(b); math.Abs(d-5) > eps {
		t.Fatalf("DistXZ = %f, want 5", d)
	}
}

func TestClampLen(t *testing.T) {
	v := V(0.3, 0, 0.4).ClampLen(0.2)
	if math.Abs(v.Len()-0.2) > eps {
		t.Fatalf("len = %f, want 0.2", v.Len())
	}
	short := V(0.01, 0, 0)
	if short.ClampLen(0.2) != short {
		t.Fatalf("short vector changed")
	}
}

func TestOverlaps(t *testing.T) {
	if !Overlaps(V(0, 0, 0), 3, V(2, 0, 0), 3) {
		t.Fatalf("expected overlap at distance 2")
	}
	if Overlaps(V(0, 0, 0), 1, V(2, 0, 0), 1) {
		t.Fatalf("touching spheres must not overlap")
	}
}

func TestLerpMidpoint(t *testing.T) {
	m := V(0, 0, 0).Midpoint(V(2, 4, -6))
	if m != V(1, 2, -3) {
		t.Fatalf("midpoint = %+v", m)
	}
}

func TestArithmetic(t *testing.T) {
	a, b := V(1, -2, 3), V(4, 5, -6)
	if got := a.Add(b); got != V(5, 3, -3) {
		t.Fatalf("Add = %+v", got)
	}
	if got := a.Sub(b); got != V(-3, -7, 9) {
		t.Fatalf("Sub = %+v", got)
	}
	if got := a.Scale(-2); got != V(-2, 4, -6) {
		t.Fatalf("Scale = %+v", got)
	}
	if got := a.Dot(b); got != -24 {
		t.Fatalf("Dot = %v, want -24", got)
	}
}
