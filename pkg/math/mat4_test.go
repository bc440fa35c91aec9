package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Translate(1,0,0) * Translate(0,2,0) applied to the origin lands on (1,2,0).
	m := Translate(1, 0, 0).Mul(Translate(0, 2, 0))
	got := m.TransformPoint(Vec3{})
	if got != (Vec3{1, 2, 0}) {
		t.Errorf("combined translation: got %v, want (1, 2, 0)", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math32.Pi/4, 1, 0.1, 100)

	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	// A point on the near plane maps to NDC depth -1, on the far plane to +1.
	near := m.TransformPoint(Vec3{0, 0, -0.1})
	far := m.TransformPoint(Vec3{0, 0, -100})
	if abs(near.Z+1) > 1e-3 || abs(far.Z-1) > 1e-3 {
		t.Errorf("depth range: near %f far %f, want -1 and 1", near.Z, far.Z)
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	// The eye maps to the view-space origin and the target lies on -Z.
	if p := m.TransformPoint(eye); p.Length() > 1e-5 {
		t.Errorf("eye in view space: got %v, want origin", p)
	}
	if p := m.TransformPoint(Vec3{}); abs(p.Z+5) > 1e-5 {
		t.Errorf("target view Z: got %f, want -5", p.Z)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestInverse(t *testing.T) {
	view := LookAt(Vec3{3, -7, 12}, Vec3{1, 2, 0}, Vec3{0, 0, 1})
	vp := Perspective(Radians(50), 1.6, 0.1, 500).Mul(view)

	got := vp.Mul(vp.Inverse())
	want := Identity()
	for i := range got {
		if math32.Abs(got[i]-want[i]) > 1e-3 {
			t.Fatalf("m * inverse(m)[%d] = %f, want %f", i, got[i], want[i])
		}
	}

	p := Vec3{4, 5, -1}
	back := vp.Inverse().TransformPoint(vp.TransformPoint(p))
	if back.Sub(p).Length() > 1e-2 {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestInverseSingular(t *testing.T) {
	if got := (Mat4{}).Inverse(); got != Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}
