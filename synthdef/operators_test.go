package synthdef_test

import (
	"testing"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

func TestBinaryOpFolding(t *testing.T) {
	b := newBuilder(t)
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	x := sine[0]
	tests := []struct {
		name        string
		op          supriya.BinaryOperator
		left, right interface{}
		expected    supriya.Input
	}{
		{"x*0", supriya.Multiplication, x, 0, supriya.Constant(0)},
		{"0*x", supriya.Multiplication, 0, x, supriya.Constant(0)},
		{"x*1", supriya.Multiplication, x, 1, x},
		{"1*x", supriya.Multiplication, 1, x, x},
		{"x+0", supriya.Addition, x, 0, x},
		{"0+x", supriya.Addition, 0, x, x},
		{"x-0", supriya.Subtraction, x, 0, x},
		{"x/1", supriya.FloatDivision, x, 1, x},
		{"2+3", supriya.Addition, 2, 3, supriya.Constant(5)},
		{"2*3", supriya.Multiplication, 2, 3, supriya.Constant(6)},
		{"2-3", supriya.Subtraction, 2, 3, supriya.Constant(-1)},
		{"3/2", supriya.FloatDivision, 3, 2, supriya.Constant(1.5)},
		{"max(2,3)", supriya.Maximum, 2, 3, supriya.Constant(3)},
		{"2**3", supriya.Power, 2, 3, supriya.Constant(8)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := b.NumUGens()
			got, err := b.BinaryOp(test.op, test.left, test.right)
			if err != nil {
				t.Fatalf("BinaryOp failed: %v", err)
			}
			if len(got) != 1 || got[0] != test.expected {
				t.Fatalf("got %v, expected %v", got, test.expected)
			}
			if b.NumUGens() != before {
				t.Fatalf("folded operator should not create ugens")
			}
		})
	}
}

func TestNegationFolding(t *testing.T) {
	b := newBuilder(t)
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	for _, f := range []func() (synthdef.Signal, error){
		func() (synthdef.Signal, error) { return b.Mul(sine, -1) },
		func() (synthdef.Signal, error) { return b.Mul(-1, sine) },
		func() (synthdef.Signal, error) { return b.Sub(0, sine) },
		func() (synthdef.Signal, error) { return b.Div(sine, -1) },
	} {
		before := b.NumUGens()
		if _, err := f(); err != nil {
			t.Fatalf("operator failed: %v", err)
		}
		if b.NumUGens() != before+1 {
			t.Fatalf("negation should create a single ugen")
		}
	}
	d, err := b.Build("neg", false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, u := range d.UGens()[1:] {
		if u.Type != "UnaryOpUGen" || u.SpecialIndex != int16(supriya.Negative) {
			t.Fatalf("expected a negation, got %v with special index %d", u.Type, u.SpecialIndex)
		}
	}
	got, err := b.Neg(3)
	if err != nil {
		t.Fatalf("Neg failed: %v", err)
	}
	if got[0] != supriya.Constant(-3) {
		t.Fatalf("negating a constant should fold, got %v", got[0])
	}
}

func TestBinaryOpExpansion(t *testing.T) {
	b := newBuilder(t)
	sines, err := b.AR("SinOsc", synthdef.Args{"frequency": []float64{220, 330}})
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	got, err := b.Mul(sines, []float64{0.5, 0.25, 0.125})
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected three channels, got %d", len(got))
	}
	if got[0].Source == got[2].Source {
		t.Fatalf("each channel should have its own BinaryOpUGen")
	}
	if b.NumUGens() != 5 {
		t.Fatalf("expected 2 SinOscs and 3 BinaryOpUGens, got %d ugens", b.NumUGens())
	}
	if got[0].Rate != supriya.Audio {
		t.Fatalf("product of an audio signal should run at audio rate, got %v", got[0].Rate)
	}
}

func TestMulAdd(t *testing.T) {
	b := newBuilder(t, supriya.NewParameter("amp", 0.5), supriya.NewParameter("a_in"))
	amp, _ := b.Parameter("amp")
	audioIn, _ := b.Parameter("a_in")
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	if got, _ := b.MulAdd(sine, 0, 3); got[0] != supriya.Constant(3) {
		t.Fatalf("x*0+3 should fold to 3, got %v", got[0])
	}
	if got, _ := b.MulAdd(sine, 1, 0); got[0] != sine[0] {
		t.Fatalf("x*1+0 should fold to x, got %v", got[0])
	}
	before := b.NumUGens()
	if _, err := b.MulAdd(sine, amp, 0.5); err != nil {
		t.Fatalf("MulAdd failed: %v", err)
	}
	if b.NumUGens() != before+1 {
		t.Fatalf("audio rate MulAdd should be a single ugen")
	}
	kr, err := b.KR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.kr failed: %v", err)
	}
	before = b.NumUGens()
	got, err := b.MulAdd(kr, audioIn, 0.5)
	if err != nil {
		t.Fatalf("MulAdd failed: %v", err)
	}
	if b.NumUGens() != before+1 || got[0].Rate != supriya.Audio {
		t.Fatalf("kr source with an ar multiplier should swap into an ar MulAdd")
	}
	before = b.NumUGens()
	if _, err := b.MulAdd(kr, amp, audioIn); err != nil {
		t.Fatalf("MulAdd failed: %v", err)
	}
	if b.NumUGens() != before+2 {
		t.Fatalf("kr MulAdd with an ar addend should split into a product and a sum, got %d new ugens", b.NumUGens()-before)
	}
}
