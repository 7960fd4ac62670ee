package supriya

import "sort"

type (
	// UGenType documents a unit generator type: what inputs it takes, at
	// which rates it can run, how many outputs it has and how the graph
	// compiler should treat it.
	UGenType struct {
		Inputs []UGenInputSpec

		// Rates lists the calculation rates the type supports. Empty means
		// any rate.
		Rates []CalculationRate

		// Outputs is the number of outputs, or the default number of outputs
		// when SettableChannels is true.
		Outputs          int
		SettableChannels bool // the channel_count argument sets the number of outputs

		Pure       bool // no side effects; can be removed when nothing reads its outputs
		WidthFirst bool // must run before every UGen declared after it
		Output     bool // writes to a bus; never removed
		Control    bool // carries synth parameters; created only by the graph builder
		PVChain    bool // reads and writes an FFT buffer in place
	}

	// UGenInputSpec documents one input of a unit generator type.
	UGenInputSpec struct {
		Name       string
		Default    float64   // used when the input is not given and it is not Required
		Required   bool      // the input has no default value
		Unexpanded bool      // a list given to this input is flattened into the inputs, not multichannel expanded; only ever the last input
		Check      RateCheck // restriction on the rate of the signal connected to this input
	}

	// RateCheck restricts the rate of a signal connected to an input.
	RateCheck int
)

const (
	CheckNone RateCheck = iota
	// CheckSameAsFirst requires that an audio rate UGen receives an audio
	// rate signal in this input.
	CheckSameAsFirst
	// CheckSameOrSlower requires that the signal is not faster than the UGen.
	CheckSameOrSlower
)

var (
	anyRate   []CalculationRate
	arkr      = []CalculationRate{Audio, Control}
	arkrir    = []CalculationRate{Audio, Control, Scalar}
	krir      = []CalculationRate{Control, Scalar}
	onlyAudio = []CalculationRate{Audio}
	onlyKr    = []CalculationRate{Control}
	onlyIr    = []CalculationRate{Scalar}
)

func in(name string, def float64) UGenInputSpec {
	return UGenInputSpec{Name: name, Default: def}
}

func req(name string) UGenInputSpec {
	return UGenInputSpec{Name: name, Required: true}
}

func vec(name string) UGenInputSpec {
	return UGenInputSpec{Name: name, Required: true, Unexpanded: true}
}

func same(spec UGenInputSpec) UGenInputSpec {
	spec.Check = CheckSameAsFirst
	return spec
}

func slower(spec UGenInputSpec) UGenInputSpec {
	spec.Check = CheckSameOrSlower
	return spec
}

func filter(inputs ...UGenInputSpec) UGenType {
	inputs[0] = same(inputs[0])
	return UGenType{Inputs: inputs, Rates: arkr, Outputs: 1, Pure: true}
}

func osc(inputs ...UGenInputSpec) UGenType {
	return UGenType{Inputs: inputs, Rates: arkr, Outputs: 1, Pure: true}
}

func pv(inputs ...UGenInputSpec) UGenType {
	return UGenType{Inputs: inputs, Rates: onlyKr, Outputs: 1, WidthFirst: true, PVChain: true}
}

func out(rates []CalculationRate, inputs ...UGenInputSpec) UGenType {
	return UGenType{Inputs: inputs, Rates: rates, Output: true}
}

// UGenTypes is the catalog of the unit generators the graph builder can
// construct and the decompiler can read.
var UGenTypes = map[string]UGenType{
	// operators
	"BinaryOpUGen": {Inputs: []UGenInputSpec{req("left"), req("right")}, Rates: anyRate, Outputs: 1, Pure: true},
	"UnaryOpUGen":  {Inputs: []UGenInputSpec{req("source")}, Rates: anyRate, Outputs: 1, Pure: true},
	"MulAdd":       {Inputs: []UGenInputSpec{req("source"), in("multiplier", 1), in("addend", 0)}, Rates: arkrir, Outputs: 1, Pure: true},
	"Sum3":         {Inputs: []UGenInputSpec{req("input_one"), req("input_two"), req("input_three")}, Rates: anyRate, Outputs: 1, Pure: true},
	"Sum4":         {Inputs: []UGenInputSpec{req("input_one"), req("input_two"), req("input_three"), req("input_four")}, Rates: anyRate, Outputs: 1, Pure: true},

	// controls
	"Control":      {Rates: krir, Outputs: 1, SettableChannels: true, Control: true},
	"AudioControl": {Rates: onlyAudio, Outputs: 1, SettableChannels: true, Control: true},
	"TrigControl":  {Rates: onlyKr, Outputs: 1, SettableChannels: true, Control: true},
	"LagControl":   {Inputs: []UGenInputSpec{vec("lags")}, Rates: onlyKr, Outputs: 1, SettableChannels: true, Control: true},

	// oscillators
	"SinOsc":  osc(in("frequency", 440), in("phase", 0)),
	"Saw":     osc(in("frequency", 440)),
	"Pulse":   osc(in("frequency", 440), in("width", 0.5)),
	"LFSaw":   osc(in("frequency", 440), in("initial_phase", 0)),
	"LFTri":   osc(in("frequency", 440), in("initial_phase", 0)),
	"LFCub":   osc(in("frequency", 440), in("initial_phase", 0)),
	"LFPar":   osc(in("frequency", 440), in("initial_phase", 0)),
	"LFPulse": osc(in("frequency", 440), in("initial_phase", 0), in("width", 0.5)),
	"Impulse": osc(in("frequency", 440), in("phase", 0)),
	"Osc":     osc(req("buffer_id"), in("frequency", 440), in("initial_phase", 0)),
	"Select":  osc(req("selector"), vec("sources")),

	// noise
	"WhiteNoise": {Rates: arkr, Outputs: 1},
	"PinkNoise":  {Rates: arkr, Outputs: 1},
	"BrownNoise": {Rates: arkr, Outputs: 1},
	"Dust":       {Inputs: []UGenInputSpec{in("density", 0)}, Rates: arkr, Outputs: 1},
	"LFNoise0":   {Inputs: []UGenInputSpec{in("frequency", 500)}, Rates: arkr, Outputs: 1},
	"LFNoise1":   {Inputs: []UGenInputSpec{in("frequency", 500)}, Rates: arkr, Outputs: 1},
	"Rand":       {Inputs: []UGenInputSpec{slower(in("minimum", 0)), slower(in("maximum", 1))}, Rates: onlyIr, Outputs: 1},
	"ExpRand":    {Inputs: []UGenInputSpec{slower(in("minimum", 0)), slower(in("maximum", 1))}, Rates: onlyIr, Outputs: 1},
	"IRand":      {Inputs: []UGenInputSpec{slower(in("minimum", 0)), slower(in("maximum", 127))}, Rates: onlyIr, Outputs: 1},
	"RandID":     {Inputs: []UGenInputSpec{in("rand_id", 1)}, Rates: krir, Outputs: 1, WidthFirst: true},
	"RandSeed":   {Inputs: []UGenInputSpec{in("trigger", 0), in("seed", 56789)}, Rates: arkrir, Outputs: 1, WidthFirst: true},

	// filters
	"LPF":      filter(req("source"), in("frequency", 440)),
	"HPF":      filter(req("source"), in("frequency", 440)),
	"BPF":      filter(req("source"), in("frequency", 440), in("reciprocal_of_q", 1)),
	"RLPF":     filter(req("source"), in("frequency", 440), in("reciprocal_of_q", 1)),
	"Lag":      filter(req("source"), in("lag_time", 0.1)),
	"Lag2":     filter(req("source"), in("lag_time", 0.1)),
	"Decay":    filter(req("source"), in("decay_time", 1)),
	"Decay2":   filter(req("source"), in("attack_time", 0.01), in("decay_time", 1)),
	"Clip":     {Inputs: []UGenInputSpec{req("source"), in("minimum", 0), in("maximum", 1)}, Rates: arkrir, Outputs: 1, Pure: true},
	"FreeVerb": {Inputs: []UGenInputSpec{same(req("source")), in("mix", 0.33), in("room_size", 0.5), in("damping", 0.5)}, Rates: onlyAudio, Outputs: 1, Pure: true},

	// delays
	"DelayN":   filter(req("source"), in("maximum_delay_time", 0.2), in("delay_time", 0.2)),
	"DelayC":   filter(req("source"), in("maximum_delay_time", 0.2), in("delay_time", 0.2)),
	"CombN":    filter(req("source"), in("maximum_delay_time", 0.2), in("delay_time", 0.2), in("decay_time", 1)),
	"CombL":    filter(req("source"), in("maximum_delay_time", 0.2), in("delay_time", 0.2), in("decay_time", 1)),
	"AllpassN": filter(req("source"), in("maximum_delay_time", 0.2), in("delay_time", 0.2), in("decay_time", 1)),

	// envelopes
	"EnvGen":   {Inputs: []UGenInputSpec{in("gate", 1), in("level_scale", 1), in("level_bias", 0), in("time_scale", 1), in("done_action", 0), vec("envelope")}, Rates: arkr, Outputs: 1},
	"Line":     {Inputs: []UGenInputSpec{in("start", 0), in("stop", 1), in("duration", 1), in("done_action", 0)}, Rates: arkr, Outputs: 1},
	"XLine":    {Inputs: []UGenInputSpec{in("start", 1), in("stop", 2), in("duration", 1), in("done_action", 0)}, Rates: arkr, Outputs: 1},
	"FreeSelf": {Inputs: []UGenInputSpec{req("trigger")}, Rates: onlyKr, Outputs: 1},

	// panning
	"Pan2": {Inputs: []UGenInputSpec{req("source"), in("position", 0), in("level", 1)}, Rates: arkr, Outputs: 2},

	// bus i/o
	"In":         {Inputs: []UGenInputSpec{in("bus", 0)}, Rates: arkr, Outputs: 1, SettableChannels: true},
	"InFeedback": {Inputs: []UGenInputSpec{in("bus", 0)}, Rates: onlyAudio, Outputs: 1, SettableChannels: true},
	"LocalIn":    {Inputs: []UGenInputSpec{{Name: "default", Unexpanded: true}}, Rates: arkr, Outputs: 1, SettableChannels: true},
	"Out":        out(arkr, req("bus"), same(vec("source"))),
	"OffsetOut":  out(onlyAudio, req("bus"), same(vec("source"))),
	"ReplaceOut": out(arkr, req("bus"), same(vec("source"))),
	"LocalOut":   out(arkr, same(vec("source"))),
	"SendTrig":   {Inputs: []UGenInputSpec{req("trigger"), in("id_", 0), in("value", 0)}, Rates: arkr},

	// buffers
	"LocalBuf":      {Inputs: []UGenInputSpec{in("channel_count", 1), in("frame_count", 1)}, Rates: onlyIr, Outputs: 1, WidthFirst: true},
	"MaxLocalBufs":  {Inputs: []UGenInputSpec{in("maximum", 0)}, Rates: onlyIr, Outputs: 1},
	"BufFrames":     {Inputs: []UGenInputSpec{req("buffer_id")}, Rates: krir, Outputs: 1},
	"BufSampleRate": {Inputs: []UGenInputSpec{req("buffer_id")}, Rates: krir, Outputs: 1},
	"PlayBuf":       {Inputs: []UGenInputSpec{in("buffer_id", 0), in("rate", 1), in("trigger", 1), in("start_position", 0), in("loop", 0), in("done_action", 0)}, Rates: arkr, Outputs: 1, SettableChannels: true},

	// rate conversion
	"K2A": {Inputs: []UGenInputSpec{in("source", 0)}, Rates: onlyAudio, Outputs: 1, Pure: true},
	"A2K": {Inputs: []UGenInputSpec{in("source", 0)}, Rates: onlyKr, Outputs: 1, Pure: true},
	"DC":  {Inputs: []UGenInputSpec{in("source", 0)}, Rates: arkr, Outputs: 1, Pure: true},

	// fft
	"FFT":            pv(req("buffer_id"), req("source"), in("hop", 0.5), in("window_type", 0), in("active", 1), in("window_size", 0)),
	"IFFT":           {Inputs: []UGenInputSpec{req("pv_chain"), in("window_type", 0), in("window_size", 0)}, Rates: arkr, Outputs: 1, WidthFirst: true},
	"PV_Copy":        pv(req("pv_chain_a"), req("pv_chain_b")),
	"PV_MagFreeze":   pv(req("pv_chain"), in("freeze", 0)),
	"PV_BrickWall":   pv(req("pv_chain"), in("wipe", 0)),
	"PV_BinScramble": pv(req("pv_chain"), in("wipe", 0), in("width", 0.2), in("trigger", 0)),
	"PV_MagMul":      pv(req("pv_chain_a"), req("pv_chain_b")),
	"PV_RandComb":    pv(req("pv_chain"), in("wipe", 0), in("trigger", 0)),
}

// UGenTypeNames is a sorted list of the names in UGenTypes. Populated in
// init(); DO NOT CHANGE.
var UGenTypeNames []string

func init() {
	UGenTypeNames = make([]string, 0, len(UGenTypes))
	for name := range UGenTypes {
		UGenTypeNames = append(UGenTypeNames, name)
	}
	sort.Strings(UGenTypeNames)
}

// IsControlType reports if the named type is one of the control UGens:
// Control, AudioControl, TrigControl or LagControl.
func IsControlType(name string) bool {
	t, ok := UGenTypes[name]
	return ok && t.Control
}

// ValidRate reports if the type can run at rate r.
func (t *UGenType) ValidRate(r CalculationRate) bool {
	if len(t.Rates) == 0 {
		return true
	}
	for _, v := range t.Rates {
		if v == r {
			return true
		}
	}
	return false
}

// CheckInput reports if a signal of rate inputRate may be connected to the
// input spec of a UGen running at rate ugenRate.
func (s *UGenInputSpec) CheckInput(ugenRate, inputRate CalculationRate) bool {
	switch s.Check {
	case CheckSameAsFirst:
		return ugenRate != Audio || inputRate == Audio
	case CheckSameOrSlower:
		return inputRate <= ugenRate
	}
	return true
}
