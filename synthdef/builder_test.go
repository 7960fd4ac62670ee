package synthdef_test

import (
	"errors"
	"testing"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

func newBuilder(t *testing.T, params ...supriya.Parameter) *synthdef.Builder {
	t.Helper()
	b, err := synthdef.NewBuilder(params...)
	if err != nil {
		t.Fatalf("could not create builder: %v", err)
	}
	return b
}

func TestBuilderErrors(t *testing.T) {
	b := newBuilder(t, supriya.NewParameter("freq", 440))
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	tests := []struct {
		name     string
		f        func() error
		expected error
	}{
		{"unknown type", func() error { _, err := b.AR("NotARealUGen", nil); return err }, synthdef.ErrUnknownUGen},
		{"control type", func() error { _, err := b.KR("Control", nil); return err }, synthdef.ErrReservedType},
		{"bad rate", func() error { _, err := b.AR("LocalBuf", nil); return err }, synthdef.ErrInvalidRate},
		{"unknown input", func() error { _, err := b.AR("SinOsc", synthdef.Args{"freq": 440}); return err }, synthdef.ErrUnknownInput},
		{"missing input", func() error { _, err := b.AR("Out", synthdef.Args{"bus": 0}); return err }, synthdef.ErrMissingInput},
		{"bad value", func() error { _, err := b.AR("SinOsc", synthdef.Args{"frequency": "high"}); return err }, synthdef.ErrInvalidValue},
		{"bad channel count", func() error { _, err := b.AR("In", synthdef.Args{synthdef.ChannelCount: 0}); return err }, synthdef.ErrInvalidValue},
		{"input rate", func() error {
			kr, err := b.KR("SinOsc", nil)
			if err != nil {
				return err
			}
			_, err = b.AR("Out", synthdef.Args{"bus": 0, "source": kr})
			return err
		}, synthdef.ErrInputRate},
		{"unknown parameter", func() error { _, err := b.Parameter("amp"); return err }, synthdef.ErrUnknownParameter},
		{"duplicate parameter", func() error { _, err := b.AddParameter(supriya.NewParameter("freq")); return err }, synthdef.ErrDuplicateParameter},
		{"invalid signal", func() error {
			_, err := b.AR("Out", synthdef.Args{"bus": 0, "source": supriya.Input{Kind: supriya.UGenInput, Source: 1000, Scope: b.Scope()}})
			return err
		}, synthdef.ErrInvalidSignal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.f(); !errors.Is(err, test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, err)
			}
		})
	}
	if _, err := b.AR("Out", synthdef.Args{"bus": 0, "source": sine}); err != nil {
		t.Fatalf("builder should still work after errors: %v", err)
	}
}

func TestCrossScope(t *testing.T) {
	one := newBuilder(t, supriya.NewParameter("freq", 440))
	two := newBuilder(t)
	if one.Scope() == two.Scope() {
		t.Fatalf("two builders share the scope %v", one.Scope())
	}
	sine, err := one.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	if _, err := two.AR("Out", synthdef.Args{"bus": 0, "source": sine}); !errors.Is(err, synthdef.ErrCrossScope) {
		t.Fatalf("expected ErrCrossScope, got %v", err)
	}
	freq, err := one.Parameter("freq")
	if err != nil {
		t.Fatalf("Parameter failed: %v", err)
	}
	if _, err := two.AR("SinOsc", synthdef.Args{"frequency": freq}); !errors.Is(err, synthdef.ErrCrossScope) {
		t.Fatalf("expected ErrCrossScope for a parameter, got %v", err)
	}
	if _, err := two.Mul(sine, 2); !errors.Is(err, synthdef.ErrCrossScope) {
		t.Fatalf("expected ErrCrossScope for an operator, got %v", err)
	}
}

func TestClosedBuilder(t *testing.T) {
	b := newBuilder(t)
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	if _, err := b.AR("Out", synthdef.Args{"bus": 0, "source": sine}); err != nil {
		t.Fatalf("Out.ar failed: %v", err)
	}
	b.Close()
	if _, err := b.AR("SinOsc", nil); !errors.Is(err, synthdef.ErrBuilderClosed) {
		t.Fatalf("expected ErrBuilderClosed, got %v", err)
	}
	if _, err := b.Mul(sine, sine); !errors.Is(err, synthdef.ErrBuilderClosed) {
		t.Fatalf("expected ErrBuilderClosed from an operator, got %v", err)
	}
	if _, err := b.AddParameter(supriya.NewParameter("freq")); !errors.Is(err, synthdef.ErrBuilderClosed) {
		t.Fatalf("expected ErrBuilderClosed from AddParameter, got %v", err)
	}
	if _, err := b.Build("closed", true); err != nil {
		t.Fatalf("a closed builder should still build: %v", err)
	}
}

func TestMultichannelExpansion(t *testing.T) {
	b := newBuilder(t)
	sines, err := b.AR("SinOsc", synthdef.Args{"frequency": []float64{440, 660, 880}, "phase": []float64{0, 0.5}})
	if err != nil {
		t.Fatalf("SinOsc.ar failed: %v", err)
	}
	if len(sines) != 3 || b.NumUGens() != 3 {
		t.Fatalf("expected three SinOscs, got a %d channel signal from %d ugens", len(sines), b.NumUGens())
	}
	if _, err := b.AR("Out", synthdef.Args{"bus": 0, "source": sines}); err != nil {
		t.Fatalf("Out.ar failed: %v", err)
	}
	if b.NumUGens() != 4 {
		t.Fatalf("Out should not expand over its source, got %d ugens", b.NumUGens())
	}
	d, err := b.Build("expanded", true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ugens := d.UGens()
	phases := []float64{0, 0.5, 0}
	for i, phase := range phases {
		if !ugens[i].Inputs[1].IsConstantValue(phase) {
			t.Fatalf("SinOsc %d should have phase %v, got %v", i, phase, ugens[i].Inputs[1])
		}
	}
	if out := ugens[3]; len(out.Inputs) != 4 {
		t.Fatalf("Out should read the bus and three channels, got %v", out.Inputs)
	}
}

func TestSettableChannels(t *testing.T) {
	b := newBuilder(t)
	in, err := b.AR("In", synthdef.Args{"bus": 2, synthdef.ChannelCount: 4})
	if err != nil {
		t.Fatalf("In.ar failed: %v", err)
	}
	if len(in) != 4 {
		t.Fatalf("expected four channels, got %d", len(in))
	}
	local, err := b.AR("LocalIn", synthdef.Args{synthdef.ChannelCount: 2})
	if err != nil {
		t.Fatalf("LocalIn.ar failed: %v", err)
	}
	if len(local) != 2 {
		t.Fatalf("expected two LocalIn channels, got %d", len(local))
	}
}

func TestDefineClosesBuilder(t *testing.T) {
	var kept *synthdef.Builder
	_, err := synthdef.Define("closing", func(b *synthdef.Builder) error {
		kept = b
		return sineProduct(b)
	})
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if _, err := kept.AR("SinOsc", nil); !errors.Is(err, synthdef.ErrBuilderClosed) {
		t.Fatalf("the builder of Define should be closed, got %v", err)
	}
}

func TestParameterPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		expected supriya.ParameterRate
	}{
		{"a_in", supriya.AudioParameter},
		{"i_out", supriya.ScalarParameter},
		{"t_gate", supriya.TriggerParameter},
		{"freq", supriya.ControlParameter},
		{"at_freq", supriya.ControlParameter},
	}
	for _, test := range tests {
		if p := supriya.NewParameter(test.name); p.Rate != test.expected {
			t.Fatalf("parameter %q got rate %v, expected %v", test.name, p.Rate, test.expected)
		}
	}
}
