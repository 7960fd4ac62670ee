package supriya

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// UGen is one node of a synth graph: a unit generator of a certain type,
	// running at a certain rate, reading its inputs from constants or from
	// the outputs of other UGens in the same graph.
	UGen struct {
		// Type is the name of the unit generator, e.g. "SinOsc". It is
		// written verbatim into compiled synth definitions and must be found
		// in UGenTypes.
		Type string

		Rate CalculationRate

		// SpecialIndex is type dependent: the operator code of BinaryOpUGen
		// and UnaryOpUGen, or the offset of the first parameter value for the
		// control UGens. Zero for everything else.
		SpecialIndex int16

		// Inputs are in the order the type declares them. The tail of an
		// unexpanded input (e.g. the channels of Out) is flattened in.
		Inputs []Input

		// NumOutputs is 0 for sinks like Out.
		NumOutputs int

		// Parameters lists, in output order, the synth parameters carried by
		// a control UGen. Empty for all other types.
		Parameters []Parameter
	}

	// Input is either a constant, a reference to an output of another UGen,
	// or, while a graph is still being built, a reference to a channel of a
	// named parameter.
	Input struct {
		Kind InputKind

		// Value is the constant value of a ConstantInput.
		Value float64

		// Source is the index of the referenced UGen (UGenInput) or
		// parameter (ParameterInput) in the graph under construction. In a
		// finished synth definition it is the position of the source in the
		// sorted UGen list.
		Source int

		// Output is the output index (UGenInput) or the channel
		// (ParameterInput) of the source.
		Output int

		// Rate is the calculation rate of the source. Always Scalar for
		// constants.
		Rate CalculationRate

		// Scope identifies the builder that created the source. uuid.Nil for
		// constants and for inputs of decompiled definitions.
		Scope uuid.UUID
	}

	InputKind int
)

const (
	ConstantInput InputKind = iota
	UGenInput
	ParameterInput
)

// Constant returns a constant input.
func Constant(v float64) Input {
	return Input{Kind: ConstantInput, Value: v, Rate: Scalar}
}

// Ref returns a reference to output of the UGen at position source.
func Ref(source, output int, rate CalculationRate) Input {
	return Input{Kind: UGenInput, Source: source, Output: output, Rate: rate}
}

func (i Input) IsConstant() bool {
	return i.Kind == ConstantInput
}

// IsConstantValue reports if the input is the constant v.
func (i Input) IsConstantValue(v float64) bool {
	return i.Kind == ConstantInput && i.Value == v
}

func (i Input) String() string {
	switch i.Kind {
	case ConstantInput:
		return fmt.Sprint(i.Value)
	case ParameterInput:
		return fmt.Sprintf("param#%d[%d]", i.Source, i.Output)
	}
	return fmt.Sprintf("ugen#%d[%d]", i.Source, i.Output)
}

// Copy makes a deep copy of a UGen.
func (u *UGen) Copy() UGen {
	inputs := make([]Input, len(u.Inputs))
	copy(inputs, u.Inputs)
	var params []Parameter
	if len(u.Parameters) > 0 {
		params = make([]Parameter, len(u.Parameters))
		for i, p := range u.Parameters {
			params[i] = p.Copy()
		}
	}
	return UGen{Type: u.Type, Rate: u.Rate, SpecialIndex: u.SpecialIndex, Inputs: inputs, NumOutputs: u.NumOutputs, Parameters: params}
}

// IsControl reports if the UGen is one of the control UGens carrying synth
// parameters.
func (u *UGen) IsControl() bool {
	return IsControlType(u.Type)
}

// InputName returns the name of the input at index i, as declared by the
// UGen's type. Inputs in the tail of an unexpanded input are named
// "name[j]". Inputs of unknown types are named by their index.
func (u *UGen) InputName(i int) string {
	if IsControlType(u.Type) {
		return fmt.Sprintf("lags[%d]", i)
	}
	t, ok := UGenTypes[u.Type]
	if !ok {
		return fmt.Sprintf("%d", i)
	}
	for j, spec := range t.Inputs {
		if spec.Unexpanded {
			if i >= j {
				return fmt.Sprintf("%s[%d]", spec.Name, i-j)
			}
			continue
		}
		if i == j {
			return spec.Name
		}
	}
	return fmt.Sprintf("%d", i)
}

// ParameterForOutput returns the parameter carried by the output o of a
// control UGen, and the channel of that parameter the output carries.
func (u *UGen) ParameterForOutput(o int) (Parameter, int, bool) {
	for _, p := range u.Parameters {
		if o < p.Width() {
			return p, o, true
		}
		o -= p.Width()
	}
	return Parameter{}, 0, false
}
