package synthdef_test

import (
	"reflect"
	"testing"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

func ugenTypes(d *synthdef.SynthDef) []string {
	ret := []string{}
	for _, u := range d.UGens() {
		ret = append(ret, u.Type)
	}
	return ret
}

func deadCode(b *synthdef.Builder) error {
	sine, err := b.AR("SinOsc", nil)
	if err != nil {
		return err
	}
	unused, err := b.AR("LFSaw", nil)
	if err != nil {
		return err
	}
	if _, err := b.AR("LPF", synthdef.Args{"source": unused}); err != nil {
		return err
	}
	if _, err := b.AR("WhiteNoise", nil); err != nil {
		return err
	}
	_, err = b.AR("Out", synthdef.Args{"bus": 0, "source": sine})
	return err
}

func TestDeadCodeElimination(t *testing.T) {
	b := newBuilder(t, supriya.NewParameter("unused"))
	if err := deadCode(b); err != nil {
		t.Fatalf("building the graph failed: %v", err)
	}
	optimized, err := b.Build("dead", true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got, expected := ugenTypes(optimized), []string{"Control", "SinOsc", "Out", "WhiteNoise"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong ugens after optimization. got: %v expected: %v", got, expected)
	}
	unoptimized, err := b.Build("dead", false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got, expected := ugenTypes(unoptimized), []string{"Control", "SinOsc", "Out", "LFSaw", "LPF", "WhiteNoise"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong ugens without optimization. got: %v expected: %v", got, expected)
	}
}

func TestSortedUGensReadBackwards(t *testing.T) {
	d := mustDefine(t, "sorted", lagged, laggedParams()...)
	for i, u := range d.UGens() {
		for _, in := range u.Inputs {
			if in.Kind == supriya.UGenInput && in.Source >= i {
				t.Fatalf("%v (ugen %d) reads ugen %d", u.Type, i, in.Source)
			}
		}
	}
}

// pvCopyGraph splits one FFT chain into two PV chains and joins them again.
func pvCopyGraph(b *synthdef.Builder) error {
	noise, err := b.AR("PinkNoise", nil)
	if err != nil {
		return err
	}
	buf, err := b.IR("LocalBuf", synthdef.Args{"frame_count": 2048})
	if err != nil {
		return err
	}
	chain, err := b.KR("FFT", synthdef.Args{"buffer_id": buf, "source": noise})
	if err != nil {
		return err
	}
	scrambled, err := b.KR("PV_BinScramble", synthdef.Args{"pv_chain": chain})
	if err != nil {
		return err
	}
	frozen, err := b.KR("PV_MagFreeze", synthdef.Args{"pv_chain": chain})
	if err != nil {
		return err
	}
	product, err := b.KR("PV_MagMul", synthdef.Args{"pv_chain_a": scrambled, "pv_chain_b": frozen})
	if err != nil {
		return err
	}
	ifft, err := b.AR("IFFT", synthdef.Args{"pv_chain": product})
	if err != nil {
		return err
	}
	_, err = b.AR("Out", synthdef.Args{"bus": 0, "source": ifft})
	return err
}

func TestWidthFirstOrder(t *testing.T) {
	d := mustDefine(t, "PVCopyTest", pvCopyGraph)
	expected := []string{"PinkNoise", "MaxLocalBufs", "LocalBuf", "FFT", "BufFrames", "LocalBuf", "PV_Copy",
		"PV_BinScramble", "PV_MagFreeze", "PV_MagMul", "IFFT", "Out"}
	if got := ugenTypes(d); !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong order. got: %v expected: %v", got, expected)
	}
}

func TestPVCopyPerExtraReader(t *testing.T) {
	d := mustDefine(t, "fanout", func(b *synthdef.Builder) error {
		noise, err := b.AR("WhiteNoise", nil)
		if err != nil {
			return err
		}
		chain, err := b.KR("FFT", synthdef.Args{"buffer_id": 0, "source": noise})
		if err != nil {
			return err
		}
		var sum synthdef.Signal
		for _, name := range []string{"PV_BrickWall", "PV_MagFreeze", "PV_RandComb"} {
			pv, err := b.KR(name, synthdef.Args{"pv_chain": chain})
			if err != nil {
				return err
			}
			ifft, err := b.AR("IFFT", synthdef.Args{"pv_chain": pv})
			if err != nil {
				return err
			}
			if sum == nil {
				sum = ifft
			} else if sum, err = b.Add(sum, ifft); err != nil {
				return err
			}
		}
		_, err = b.AR("Out", synthdef.Args{"bus": 0, "source": sum})
		return err
	})
	ugens := d.UGens()
	counts := map[string]int{}
	fft := -1
	for i, u := range ugens {
		counts[u.Type]++
		if u.Type == "FFT" {
			fft = i
		}
	}
	if counts["PV_Copy"] != 2 || counts["LocalBuf"] != 2 || counts["BufFrames"] != 2 || counts["MaxLocalBufs"] != 1 {
		t.Fatalf("three readers of one chain need two copies, got %v", counts)
	}
	for _, u := range ugens {
		switch u.Type {
		case "BufFrames":
			if !u.Inputs[0].IsConstantValue(0) {
				t.Fatalf("BufFrames should read the FFT buffer, got %v", u.Inputs[0])
			}
		case "PV_Copy":
			if u.Inputs[0].Source != fft || ugens[u.Inputs[1].Source].Type != "LocalBuf" {
				t.Fatalf("PV_Copy should copy the FFT into a LocalBuf, got %v", u.Inputs)
			}
		case "PV_RandComb":
			if u.Inputs[0].Source != fft {
				t.Fatalf("the last reader should keep the original chain, got %v", u.Inputs[0])
			}
		case "PV_BrickWall", "PV_MagFreeze":
			if ugens[u.Inputs[0].Source].Type != "PV_Copy" {
				t.Fatalf("%v should read a copy of the chain, got %v", u.Type, ugens[u.Inputs[0].Source].Type)
			}
		}
	}
}

func TestSingleMaxLocalBufs(t *testing.T) {
	d := mustDefine(t, "bufs", func(b *synthdef.Builder) error {
		one, err := b.IR("LocalBuf", synthdef.Args{"frame_count": 512})
		if err != nil {
			return err
		}
		two, err := b.IR("LocalBuf", synthdef.Args{"frame_count": 1024, "channel_count": 2})
		if err != nil {
			return err
		}
		sum, err := b.Add(one, two)
		if err != nil {
			return err
		}
		_, err = b.KR("Out", synthdef.Args{"bus": 0, "source": sum})
		return err
	})
	ugens := d.UGens()
	count := 0
	for _, u := range ugens {
		if u.Type == "MaxLocalBufs" {
			count++
			if !u.Inputs[0].IsConstantValue(2) {
				t.Fatalf("MaxLocalBufs should count two buffers, got %v", u.Inputs[0])
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected a single MaxLocalBufs, got %d", count)
	}
	for i, u := range ugens {
		if u.Type != "LocalBuf" {
			continue
		}
		last := u.Inputs[len(u.Inputs)-1]
		if len(u.Inputs) != 3 || last.Kind != supriya.UGenInput || ugens[last.Source].Type != "MaxLocalBufs" {
			t.Fatalf("LocalBuf (ugen %d) should read MaxLocalBufs last, got %v", i, u.Inputs)
		}
	}
}
