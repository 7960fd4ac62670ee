package synthdef

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/google/uuid"
	supriya "github.com/supriya-project/supriya-sub004"
)

// SynthDef is a finished synth definition: a topologically sorted list of
// UGens, the constants they read and the named parameters. A SynthDef is
// compiled when it is created and never changes afterwards, so it can be
// shared between goroutines.
type SynthDef struct {
	name              string
	ugens             []supriya.UGen
	constants         []float64
	constantIndex     map[uint32]int
	indexedParameters []supriya.IndexedParameter
	body              []byte
	anonymousName     string
}

// NewSynthDef checks that every UGen only reads from UGens before it and
// compiles the definition. An empty name makes the definition anonymous:
// it is then known by the hash of its compiled body.
func NewSynthDef(name string, ugens []supriya.UGen, indexedParameters []supriya.IndexedParameter) (*SynthDef, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	d := &SynthDef{name: name, constantIndex: map[uint32]int{}}
	d.ugens = make([]supriya.UGen, len(ugens))
	for i := range ugens {
		u := ugens[i].Copy()
		if err := checkName(u.Type); err != nil {
			return nil, err
		}
		for j, in := range u.Inputs {
			switch in.Kind {
			case supriya.ConstantInput:
				d.constant(in.Value)
			case supriya.UGenInput:
				if in.Source >= i || in.Source < 0 {
					return nil, fmt.Errorf("%w: %v (ugen %d) reads ugen %d", ErrForwardReference, u.Type, i, in.Source)
				}
				if in.Output < 0 || in.Output >= d.ugens[in.Source].NumOutputs {
					return nil, fmt.Errorf("%w: %v (ugen %d) reads output %d of %v", ErrInvalidSignal, u.Type, i, in.Output, d.ugens[in.Source].Type)
				}
				u.Inputs[j].Rate = d.ugens[in.Source].Rate
			default:
				return nil, fmt.Errorf("%w: %v (ugen %d) reads an unresolved parameter", ErrInvalidSignal, u.Type, i)
			}
			u.Inputs[j].Scope = uuid.Nil
		}
		d.ugens[i] = u
	}
	d.indexedParameters = make([]supriya.IndexedParameter, len(indexedParameters))
	for i, p := range indexedParameters {
		if err := checkName(p.Parameter.Name); err != nil {
			return nil, err
		}
		d.indexedParameters[i] = supriya.IndexedParameter{Index: p.Index, Parameter: p.Parameter.Copy()}
	}
	d.body = compileBody(d)
	sum := md5.Sum(d.body)
	d.anonymousName = hex.EncodeToString(sum[:])
	return d, nil
}

// constant returns the index of a constant in the constant table, adding it
// if it has not been seen yet.
func (d *SynthDef) constant(v float64) int {
	index, ok := d.constantIndex[constantKey(v)]
	if !ok {
		index = len(d.constants)
		d.constantIndex[constantKey(v)] = index
		d.constants = append(d.constants, v)
	}
	return index
}

// Name returns the explicit name of the definition, or "" if it is anonymous.
func (d *SynthDef) Name() string {
	return d.name
}

// AnonymousName is the hex MD5 digest of the compiled body, which identifies
// the definition by its content.
func (d *SynthDef) AnonymousName() string {
	return d.anonymousName
}

// EffectiveName is the name the definition is known by in the server: the
// explicit name if there is one, the anonymous name otherwise.
func (d *SynthDef) EffectiveName() string {
	if d.name != "" {
		return d.name
	}
	return d.anonymousName
}

// UGens returns a copy of the sorted UGens.
func (d *SynthDef) UGens() []supriya.UGen {
	ret := make([]supriya.UGen, len(d.ugens))
	for i := range d.ugens {
		ret[i] = d.ugens[i].Copy()
	}
	return ret
}

// Constants returns the constant table, in first-use order.
func (d *SynthDef) Constants() []float64 {
	return append([]float64(nil), d.constants...)
}

// ControlUGens returns the control UGens carrying the parameters.
func (d *SynthDef) ControlUGens() []supriya.UGen {
	var ret []supriya.UGen
	for i := range d.ugens {
		if d.ugens[i].IsControl() {
			ret = append(ret, d.ugens[i].Copy())
		}
	}
	return ret
}

// IndexedParameters returns the parameters in declaration order, each with
// the index of its first value in the parameter value array.
func (d *SynthDef) IndexedParameters() []supriya.IndexedParameter {
	ret := make([]supriya.IndexedParameter, len(d.indexedParameters))
	for i, p := range d.indexedParameters {
		ret[i] = supriya.IndexedParameter{Index: p.Index, Parameter: p.Parameter.Copy()}
	}
	return ret
}

// Parameter returns the parameter with the given name.
func (d *SynthDef) Parameter(name string) (supriya.Parameter, bool) {
	for _, p := range d.indexedParameters {
		if p.Parameter.Name == name {
			return p.Parameter.Copy(), true
		}
	}
	return supriya.Parameter{}, false
}

// Parameters returns the parameters by name.
func (d *SynthDef) Parameters() map[string]supriya.Parameter {
	ret := make(map[string]supriya.Parameter, len(d.indexedParameters))
	for _, p := range d.indexedParameters {
		ret[p.Parameter.Name] = p.Parameter.Copy()
	}
	return ret
}

// ParameterValues returns the flat array of the initial parameter values.
func (d *SynthDef) ParameterValues() []float64 {
	n := 0
	for _, p := range d.indexedParameters {
		if end := p.Index + p.Parameter.Width(); end > n {
			n = end
		}
	}
	ret := make([]float64, n)
	for _, p := range d.indexedParameters {
		copy(ret[p.Index:], p.Parameter.Value)
	}
	return ret
}

// Body returns the compiled definition, without the file header and the
// name.
func (d *SynthDef) Body() []byte {
	return append([]byte(nil), d.body...)
}

// Compile returns a complete synthdef file holding this definition only.
func (d *SynthDef) Compile() []byte {
	return Compile(d)
}

// Size is the number of bytes the definition takes in a synthdef file.
func (d *SynthDef) Size() int {
	return 1 + len(d.EffectiveName()) + len(d.body)
}

func (d *SynthDef) String() string {
	return fmt.Sprintf("SynthDef(%s)", d.EffectiveName())
}

// constantKey identifies a constant by the bits it is written with, so that
// NaN is found again and values equal as float32 share a slot; 0 and -0 share
// a slot too.
func constantKey(v float64) uint32 {
	if v == 0 {
		v = 0
	}
	return math.Float32bits(float32(v))
}

func checkName(s string) error {
	if len(s) > 255 {
		return fmt.Errorf("%w: %.32q...", ErrNameTooLong, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return fmt.Errorf("%w: %q", ErrNonASCII, s)
		}
	}
	return nil
}
