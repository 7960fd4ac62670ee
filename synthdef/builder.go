package synthdef

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	supriya "github.com/supriya-project/supriya-sub004"
)

type (
	// Builder accumulates the UGens and parameters of one synth graph. Every
	// UGen is constructed through a method of the builder, and every signal
	// the builder hands out is tagged with the builder's scope, so that
	// signals of two builders cannot be mixed.
	//
	// A Builder is not safe for concurrent use: the order of construction
	// calls decides the order of the compiled UGens. The SynthDefs it builds
	// are immutable and can be shared freely.
	Builder struct {
		scope      uuid.UUID
		params     []supriya.Parameter
		paramIndex map[string]int
		ugens      []supriya.UGen
		closed     bool
	}

	// Signal is a list of channels. A single-output UGen produces a Signal of
	// length 1, a Pan2 a Signal of length 2. UGen inputs given a Signal of
	// several channels are multichannel expanded.
	Signal []supriya.Input

	// Args are the inputs given to a UGen, by input name. Accepted values are
	// Signal, supriya.Input, []supriya.Input, []Signal, float64, float32,
	// int and []float64. The special key "channel_count" sets the number of
	// outputs of types that have settable channels.
	Args map[string]interface{}
)

// ChannelCount is the argument key that sets the number of outputs of UGens
// like In or PlayBuf.
const ChannelCount = "channel_count"

// NewBuilder opens a new builder with the given initial parameters.
func NewBuilder(params ...supriya.Parameter) (*Builder, error) {
	b := &Builder{scope: uuid.New(), paramIndex: map[string]int{}}
	for _, p := range params {
		if _, err := b.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Define opens a builder with the given parameters, lets f construct the
// graph, closes the builder whatever f returns and builds an optimized
// SynthDef named name.
func Define(name string, f func(b *Builder) error, params ...supriya.Parameter) (*SynthDef, error) {
	b, err := NewBuilder(params...)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	if err := f(b); err != nil {
		return nil, err
	}
	return b.Build(name, true)
}

// Scope returns the id tagging every signal of this builder.
func (b *Builder) Scope() uuid.UUID {
	return b.scope
}

// Close closes the builder. UGens can no longer be added, but the builder can
// still build SynthDefs.
func (b *Builder) Close() {
	b.closed = true
}

// AddParameter declares a synth parameter and returns the signal reading it.
// A parameter without values becomes a single channel defaulting to 0.
func (b *Builder) AddParameter(p supriya.Parameter) (Signal, error) {
	if b.closed {
		return nil, ErrBuilderClosed
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: parameter without a name", ErrInvalidValue)
	}
	if _, ok := b.paramIndex[p.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateParameter, p.Name)
	}
	p = p.Copy()
	if len(p.Value) == 0 {
		p.Value = []float64{0}
	}
	b.paramIndex[p.Name] = len(b.params)
	b.params = append(b.params, p)
	return b.parameterSignal(len(b.params) - 1), nil
}

// Parameter returns the signal of a declared parameter.
func (b *Builder) Parameter(name string) (Signal, error) {
	i, ok := b.paramIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return b.parameterSignal(i), nil
}

// Parameters returns copies of the declared parameters, in declaration order.
func (b *Builder) Parameters() []supriya.Parameter {
	ret := make([]supriya.Parameter, len(b.params))
	for i, p := range b.params {
		ret[i] = p.Copy()
	}
	return ret
}

// NumUGens returns the number of UGens constructed so far.
func (b *Builder) NumUGens() int {
	return len(b.ugens)
}

func (b *Builder) parameterSignal(i int) Signal {
	p := b.params[i]
	ret := make(Signal, p.Width())
	for ch := range ret {
		ret[ch] = supriya.Input{Kind: supriya.ParameterInput, Source: i, Output: ch, Rate: p.Rate.CalculationRate(), Scope: b.scope}
	}
	return ret
}

func (b *Builder) AR(typeName string, args Args) (Signal, error) {
	return b.New(typeName, supriya.Audio, args)
}

func (b *Builder) KR(typeName string, args Args) (Signal, error) {
	return b.New(typeName, supriya.Control, args)
}

func (b *Builder) IR(typeName string, args Args) (Signal, error) {
	return b.New(typeName, supriya.Scalar, args)
}

func (b *Builder) DR(typeName string, args Args) (Signal, error) {
	return b.New(typeName, supriya.Demand, args)
}

// New constructs a UGen of the given catalog type. Inputs not given in args
// take their default values. Inputs given several channels expand the UGen
// into one UGen per channel, and the returned signal has the outputs of all
// of them.
func (b *Builder) New(typeName string, rate supriya.CalculationRate, args Args) (Signal, error) {
	if b.closed {
		return nil, ErrBuilderClosed
	}
	t, ok := supriya.UGenTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUGen, typeName)
	}
	if t.Control {
		return nil, fmt.Errorf("%w: %v", ErrReservedType, typeName)
	}
	if !t.ValidRate(rate) {
		return nil, fmt.Errorf("%w: %v cannot run at %v rate", ErrInvalidRate, typeName, rate)
	}
	numOutputs := t.Outputs
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == ChannelCount && t.SettableChannels {
			n, ok := toInt(args[k])
			if !ok || n < 1 {
				return nil, fmt.Errorf("%w: %v.%v = %v", ErrInvalidValue, typeName, k, args[k])
			}
			numOutputs = n
			continue
		}
		if !hasInput(t, k) {
			return nil, fmt.Errorf("%w: %v has no input %q", ErrUnknownInput, typeName, k)
		}
	}
	signals := make([]Signal, len(t.Inputs))
	width := 1
	for i, spec := range t.Inputs {
		v, given := args[spec.Name]
		switch {
		case given:
			s, err := b.signal(v)
			if err != nil {
				return nil, fmt.Errorf("%v.%v: %w", typeName, spec.Name, err)
			}
			signals[i] = s
		case spec.Required:
			return nil, fmt.Errorf("%w: %v.%v", ErrMissingInput, typeName, spec.Name)
		case spec.Unexpanded:
			signals[i] = make(Signal, numOutputs)
			for ch := range signals[i] {
				signals[i][ch] = supriya.Constant(spec.Default)
			}
		default:
			signals[i] = Signal{supriya.Constant(spec.Default)}
		}
		if len(signals[i]) == 0 {
			return nil, fmt.Errorf("%w: %v.%v has no channels", ErrInvalidSignal, typeName, spec.Name)
		}
		for _, in := range signals[i] {
			if !spec.CheckInput(rate, in.Rate) {
				return nil, fmt.Errorf("%w: %v.%v at %v rate cannot read a %v rate signal", ErrInputRate, typeName, spec.Name, rate, in.Rate)
			}
		}
		if !spec.Unexpanded && len(signals[i]) > width {
			width = len(signals[i])
		}
	}
	var ret Signal
	for k := 0; k < width; k++ {
		var inputs []supriya.Input
		for i, spec := range t.Inputs {
			if spec.Unexpanded {
				inputs = append(inputs, signals[i]...)
				continue
			}
			inputs = append(inputs, signals[i][k%len(signals[i])])
		}
		ret = append(ret, b.add(typeName, rate, 0, inputs, numOutputs)...)
	}
	return ret, nil
}

// add appends a UGen to the arena and returns the signal of its outputs.
func (b *Builder) add(typeName string, rate supriya.CalculationRate, specialIndex int16, inputs []supriya.Input, numOutputs int) Signal {
	index := len(b.ugens)
	b.ugens = append(b.ugens, supriya.UGen{Type: typeName, Rate: rate, SpecialIndex: specialIndex, Inputs: inputs, NumOutputs: numOutputs})
	ret := make(Signal, numOutputs)
	for o := range ret {
		ret[o] = supriya.Input{Kind: supriya.UGenInput, Source: index, Output: o, Rate: rate, Scope: b.scope}
	}
	return ret
}

// signal converts an argument value into a signal of this builder.
func (b *Builder) signal(v interface{}) (Signal, error) {
	var ret Signal
	switch v := v.(type) {
	case Signal:
		ret = v
	case supriya.Input:
		ret = Signal{v}
	case []supriya.Input:
		ret = Signal(v)
	case []Signal:
		for _, s := range v {
			ret = append(ret, s...)
		}
	case []float64:
		for _, f := range v {
			ret = append(ret, supriya.Constant(f))
		}
	case float64:
		ret = Signal{supriya.Constant(v)}
	case float32:
		ret = Signal{supriya.Constant(float64(v))}
	case int:
		ret = Signal{supriya.Constant(float64(v))}
	case int64:
		ret = Signal{supriya.Constant(float64(v))}
	default:
		return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidValue, v, v)
	}
	for _, in := range ret {
		if err := b.checkInput(in); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (b *Builder) checkInput(in supriya.Input) error {
	switch in.Kind {
	case supriya.ConstantInput:
		return nil
	case supriya.UGenInput:
		if in.Scope != b.scope {
			return ErrCrossScope
		}
		if in.Source < 0 || in.Source >= len(b.ugens) || in.Output < 0 || in.Output >= b.ugens[in.Source].NumOutputs {
			return fmt.Errorf("%w: %v", ErrInvalidSignal, in)
		}
	case supriya.ParameterInput:
		if in.Scope != b.scope {
			return ErrCrossScope
		}
		if in.Source < 0 || in.Source >= len(b.params) || in.Output < 0 || in.Output >= b.params[in.Source].Width() {
			return fmt.Errorf("%w: %v", ErrInvalidSignal, in)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignal, in)
	}
	return nil
}

func hasInput(t supriya.UGenType, name string) bool {
	for _, spec := range t.Inputs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func toInt(v interface{}) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
