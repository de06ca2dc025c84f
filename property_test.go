package particlefx

import "testing"

func TestCompilePropertyConstant(t *testing.T) {
	p, err := CompileProperty([]ControlPoint{{X: 0, Y: 5}, {X: 1, Y: 5}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []float32{0, 0.25, 0.5, 1} {
		if v := p.Sample(tt, 0); v != 5 {
			t.Errorf("Sample(%v) = %v, want 5", tt, v)
		}
	}
}

func TestCompilePropertyEmptyPoints(t *testing.T) {
	if _, err := CompileProperty(nil, 0); err == nil {
		t.Fatal("expected error for empty control points")
	}
}

func TestPropertyLinearRamp(t *testing.T) {
	p, err := CompileProperty([]ControlPoint{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Sample(0.5, 0); v < 0.45 || v > 0.55 {
		t.Errorf("Sample(0.5) = %v, want ~0.5", v)
	}
}

func TestPropertySpread(t *testing.T) {
	p, err := CompileProperty([]ControlPoint{{X: 0, Y: 10}, {X: 1, Y: 10}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Sample(0, 1); v != 12 {
		t.Errorf("Sample with spreadFactor=1 = %v, want 12", v)
	}
	if v := p.Sample(0, -1); v != 8 {
		t.Errorf("Sample with spreadFactor=-1 = %v, want 8", v)
	}
}

func TestPropertyMaxValue(t *testing.T) {
	p, err := CompileProperty([]ControlPoint{{X: 0, Y: 1}, {X: 0.5, Y: 9}, {X: 1, Y: 3}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m := p.MaxValue(); m < 8.9 || m > 9.1 {
		t.Errorf("MaxValue() = %v, want ~9", m)
	}
}
