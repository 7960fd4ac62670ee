package supriya

// Parameter is a named input of a whole synth, settable when the synth is
// instantiated or while it runs. A parameter may span several consecutive
// control channels, e.g. "freqs" of a stereo synth could be [440, 443].
type Parameter struct {
	Name  string
	Rate  ParameterRate
	Value []float64 `yaml:",flow"`

	// Lag is the lag time of a control rate parameter, in seconds. 0 means no
	// lag. Any parameter with a lag makes the control rate parameters of a
	// synth use a LagControl instead of a Control.
	Lag float64 `yaml:",omitempty" json:",omitempty"`
}

// NewParameter returns a parameter whose rate is inferred from its name, see
// ParameterRateFromName. Without values, the parameter is a single channel
// defaulting to 0.
func NewParameter(name string, values ...float64) Parameter {
	if len(values) == 0 {
		values = []float64{0}
	}
	v := make([]float64, len(values))
	copy(v, values)
	return Parameter{Name: name, Rate: ParameterRateFromName(name), Value: v}
}

// Width returns the number of control channels of the parameter.
func (p *Parameter) Width() int {
	return len(p.Value)
}

// Copy makes a deep copy of a parameter.
func (p *Parameter) Copy() Parameter {
	value := make([]float64, len(p.Value))
	copy(value, p.Value)
	return Parameter{Name: p.Name, Rate: p.Rate, Value: value, Lag: p.Lag}
}

// IndexedParameter is a parameter together with the offset of its first
// value in the flat parameter value array of a synth definition.
type IndexedParameter struct {
	Index     int
	Parameter Parameter
}
