package synthdef

import (
	"fmt"
	"sort"

	supriya "github.com/supriya-project/supriya-sub004"
)

// controlSlot tells which control UGen output carries the first channel of a
// parameter.
type controlSlot struct {
	ugen   int
	output int
}

// controlTypes are the control UGen types for each parameter rate, indexed
// by supriya.ParameterRate.
var controlTypes = [...]struct {
	name string
	rate supriya.CalculationRate
}{
	supriya.ScalarParameter:  {"Control", supriya.Scalar},
	supriya.TriggerParameter: {"TrigControl", supriya.Control},
	supriya.AudioParameter:   {"AudioControl", supriya.Audio},
	supriya.ControlParameter: {"Control", supriya.Control},
}

// Build turns the graph constructed so far into a SynthDef. Parameters are
// gathered into control UGens placed at the head of the graph, LocalBufs are
// given their MaxLocalBufs, UGens nobody reads are removed when optimize is
// true, and the UGens are sorted topologically. The builder itself is not
// modified, so it can be built again, e.g. under another name.
func (b *Builder) Build(name string, optimize bool) (*SynthDef, error) {
	params := b.Parameters()
	controls, slots, indexed := buildControls(params)
	g := newGraph(b.ugens)
	g.prependControls(controls, slots)
	if err := g.cleanupPVChains(); err != nil {
		return nil, err
	}
	g.cleanupLocalBufs()
	if optimize {
		g.eliminateDeadCode()
	}
	if err := g.sortTopologically(); err != nil {
		return nil, err
	}
	return NewSynthDef(name, g.ugens, indexed)
}

// buildControls groups the parameters by rate into control UGens: scalar,
// trigger, audio and control rate parameters, in that order. Within a group
// the parameters are sorted by name. The parameter values are numbered
// consecutively across the groups and the special index of each control UGen
// is the number of its first value.
func buildControls(params []supriya.Parameter) ([]supriya.UGen, []controlSlot, []supriya.IndexedParameter) {
	var controls []supriya.UGen
	slots := make([]controlSlot, len(params))
	starts := make([]int, len(params))
	offset := 0
	for rate := range controlTypes {
		var group []int
		lagged := false
		for i, p := range params {
			if p.Rate == supriya.ParameterRate(rate) {
				group = append(group, i)
				lagged = lagged || p.Lag != 0
			}
		}
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(x, y int) bool { return params[group[x]].Name < params[group[y]].Name })
		typeName, calcRate := controlTypes[rate].name, controlTypes[rate].rate
		if supriya.ParameterRate(rate) == supriya.ControlParameter && lagged {
			typeName = "LagControl"
		}
		control := supriya.UGen{Type: typeName, Rate: calcRate, SpecialIndex: int16(offset)}
		for _, i := range group {
			p := params[i]
			slots[i] = controlSlot{ugen: len(controls), output: control.NumOutputs}
			starts[i] = offset + control.NumOutputs
			control.NumOutputs += p.Width()
			control.Parameters = append(control.Parameters, p.Copy())
			if typeName == "LagControl" {
				for ch := 0; ch < p.Width(); ch++ {
					control.Inputs = append(control.Inputs, supriya.Constant(p.Lag))
				}
			}
		}
		offset += control.NumOutputs
		controls = append(controls, control)
	}
	indexed := make([]supriya.IndexedParameter, len(params))
	for i, p := range params {
		indexed[i] = supriya.IndexedParameter{Index: starts[i], Parameter: p.Copy()}
	}
	return controls, slots, indexed
}

// prependControls puts the control UGens first and rewrites every parameter
// reference into a reference to the control output carrying it.
func (g *graph) prependControls(controls []supriya.UGen, slots []controlSlot) {
	g.insert(0, controls...)
	for i := len(controls); i < len(g.ugens); i++ {
		inputs := g.ugens[i].Inputs
		for j, in := range inputs {
			if in.Kind != supriya.ParameterInput {
				continue
			}
			slot := slots[in.Source]
			c := slot.ugen
			inputs[j] = supriya.Input{Kind: supriya.UGenInput, Source: c, Output: slot.output + in.Output, Rate: controls[c].Rate, Scope: in.Scope}
		}
	}
}

// pvReader is a PV chain UGen reading the chain of another one.
type pvReader struct {
	chain int
	ugen  int
	input int
}

// cleanupPVChains gives every reader of a PV chain but the last its own copy
// of the chain, as PV UGens modify their buffer in place. A copy is a
// LocalBuf sized with BufFrames of the chain's FFT buffer, filled by a
// PV_Copy; the three are placed just before the reader.
func (g *graph) cleanupPVChains() error {
	var chains []int
	readers := map[int][]pvReader{}
	for i, u := range g.ugens {
		if u.Type == "PV_Copy" || !g.typeOf(i).PVChain {
			continue
		}
		for j, in := range u.Inputs {
			if in.Kind != supriya.UGenInput || !g.typeOf(in.Source).PVChain {
				continue
			}
			if _, ok := readers[in.Source]; !ok {
				chains = append(chains, in.Source)
			}
			readers[in.Source] = append(readers[in.Source], pvReader{chain: in.Source, ugen: i, input: j})
		}
	}
	var copies []pvReader
	for _, c := range chains {
		if r := readers[c]; len(r) > 1 {
			copies = append(copies, r[:len(r)-1]...)
		}
	}
	// pos follows the original UGens as UGens get inserted
	pos := make([]int, len(g.ugens))
	for i := range pos {
		pos[i] = i
	}
	for _, c := range copies {
		chain, reader := pos[c.chain], pos[c.ugen]
		buffer, err := g.fftBuffer(chain)
		if err != nil {
			return err
		}
		scope := g.ugens[reader].Inputs[c.input].Scope
		frames := supriya.Ref(reader, 0, supriya.Scalar)
		local := supriya.Ref(reader+1, 0, supriya.Scalar)
		copied := supriya.Ref(reader+2, 0, supriya.Control)
		for _, in := range []*supriya.Input{&frames, &local, &copied} {
			in.Scope = scope
		}
		source := g.ugens[reader].Inputs[c.input]
		g.insert(reader,
			supriya.UGen{Type: "BufFrames", Rate: supriya.Scalar, Inputs: []supriya.Input{buffer}, NumOutputs: 1},
			supriya.UGen{Type: "LocalBuf", Rate: supriya.Scalar, Inputs: []supriya.Input{supriya.Constant(1), frames}, NumOutputs: 1},
			supriya.UGen{Type: "PV_Copy", Rate: supriya.Control, Inputs: []supriya.Input{source, local}, NumOutputs: 1},
		)
		g.ugens[reader+3].Inputs[c.input] = copied
		for i := range pos {
			if pos[i] >= reader {
				pos[i] += 3
			}
		}
	}
	return nil
}

// fftBuffer follows a PV chain back to its FFT and returns the FFT's buffer.
func (g *graph) fftBuffer(i int) (supriya.Input, error) {
	for g.ugens[i].Type != "FFT" {
		u := &g.ugens[i]
		if len(u.Inputs) == 0 || u.Inputs[0].Kind != supriya.UGenInput || !g.typeOf(u.Inputs[0].Source).PVChain {
			return supriya.Input{}, fmt.Errorf("%w: %v (ugen %d) does not read a PV chain", ErrInvalidSignal, u.Type, i)
		}
		i = u.Inputs[0].Source
	}
	return g.ugens[i].Inputs[0], nil
}

// cleanupLocalBufs makes the graph declare how many local buffers it uses:
// a single MaxLocalBufs, placed just before the first LocalBuf, counts them
// and every LocalBuf reads it as its last input.
func (g *graph) cleanupLocalBufs() {
	first, count := -1, 0
	for i, u := range g.ugens {
		if u.Type == "LocalBuf" {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	if count == 0 {
		return
	}
	g.insert(first, supriya.UGen{Type: "MaxLocalBufs", Rate: supriya.Scalar, Inputs: []supriya.Input{supriya.Constant(float64(count))}, NumOutputs: 1})
	maxLocalBufs := supriya.Ref(first, 0, supriya.Scalar)
	alive := make([]bool, len(g.ugens))
	for i := range g.ugens {
		u := &g.ugens[i]
		alive[i] = i == first || u.Type != "MaxLocalBufs"
		if u.Type == "LocalBuf" {
			n := len(u.Inputs)
			if n > 2 {
				n = 2
			}
			u.Inputs = append(u.Inputs[:n:n], maxLocalBufs)
			continue
		}
		for j, in := range u.Inputs {
			if in.Kind == supriya.UGenInput && g.ugens[in.Source].Type == "MaxLocalBufs" {
				u.Inputs[j] = maxLocalBufs
			}
		}
	}
	g.keep(alive)
}
