package synthdef

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/viterin/vek"
)

// decoder reads the primitives of the synthdef file format. The first error
// sticks: after it, every read returns zero values, so a whole definition
// can be read before checking d.err once.
type decoder struct {
	data    []byte
	pos     int
	version int
	err     error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > len(d.data) {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, d.pos, len(d.data)-d.pos)
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) u8() int {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (d *decoder) i16() int {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return int(int16(binary.BigEndian.Uint16(b)))
}

func (d *decoder) i32() int {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return int(int32(binary.BigEndian.Uint32(b)))
}

// count reads a count or an index, 16 bits wide in version 1 files and 32
// bits wide from version 2 on.
func (d *decoder) count() int {
	if d.version < 2 {
		return d.i16()
	}
	return d.i32()
}

// countSize is the width in bytes of a count or an index.
func (d *decoder) countSize() int {
	if d.version < 2 {
		return 2
	}
	return 4
}

// records reads the count of a list whose records take at least size bytes
// each. A count the remaining data cannot hold fails the decoder, so no list
// is ever allocated beyond the size of the input.
func (d *decoder) records(size int) int {
	n := d.count()
	if d.err != nil {
		return 0
	}
	if n < 0 {
		d.fail("negative count %d at offset %d", n, d.pos)
		return 0
	}
	if remaining := len(d.data) - d.pos; n > remaining/size {
		d.err = fmt.Errorf("%w: %d records of at least %d bytes at offset %d, have %d bytes", ErrTruncated, n, size, d.pos, remaining)
		return 0
	}
	return n
}

func (d *decoder) floats() []float64 {
	n := d.records(4)
	b := d.take(4 * n)
	if b == nil {
		return nil
	}
	f := make([]float32, n)
	for i := range f {
		f[i] = math.Float32frombits(binary.BigEndian.Uint32(b[4*i:]))
	}
	return vek.FromFloat32(f)
}

func (d *decoder) pstring() string {
	return string(d.take(d.u8()))
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

// Decompile parses a synthdef file into its definitions. Definitions whose
// name is the hash of their own body come back anonymous. Parameters are
// reconstructed from the control UGens and the parameter names: their rate
// from the control type, their lag from the inputs of a LagControl.
func Decompile(data []byte) ([]*SynthDef, error) {
	d := &decoder{data: data}
	if string(d.take(4)) != fileMagic {
		if d.err != nil {
			return nil, d.err
		}
		return nil, fmt.Errorf("%w, got %q", ErrBadMagic, data[:4])
	}
	d.version = d.i32()
	if d.err == nil && (d.version < 1 || d.version > fileVersion) {
		return nil, fmt.Errorf("%w: %d", ErrVersion, d.version)
	}
	n := d.i16()
	if d.err != nil {
		return nil, d.err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative synthdef count %d", ErrMalformed, n)
	}
	ret := make([]*SynthDef, 0, n)
	for i := 0; i < n; i++ {
		def, err := d.synthDef()
		if err != nil {
			return nil, fmt.Errorf("synthdef %d: %w", i, err)
		}
		ret = append(ret, def)
	}
	return ret, nil
}

type namedIndex struct {
	name  string
	index int
}

func (d *decoder) synthDef() (*SynthDef, error) {
	name := d.pstring()
	constants := d.floats()
	values := d.floats()
	names := make([]namedIndex, d.records(1+d.countSize()))
	for i := range names {
		names[i].name = d.pstring()
		names[i].index = d.count()
	}
	if d.err != nil {
		return nil, d.err
	}
	ugens := make([]supriya.UGen, d.records(1+1+2*d.countSize()+2))
	for i := range ugens {
		u := &ugens[i]
		u.Type = d.pstring()
		u.Rate = supriya.CalculationRate(d.u8())
		numInputs := d.count()
		u.NumOutputs = d.count()
		u.SpecialIndex = int16(d.i16())
		if d.err != nil {
			return nil, d.err
		}
		if numInputs < 0 || u.NumOutputs < 0 {
			return nil, fmt.Errorf("%w: %v (ugen %d) has negative counts", ErrMalformed, u.Type, i)
		}
		if numInputs > (len(d.data)-d.pos)/(2*d.countSize()) {
			return nil, fmt.Errorf("%w: %v (ugen %d) has %d inputs, only %d bytes left", ErrTruncated, u.Type, i, numInputs, len(d.data)-d.pos)
		}
		if _, ok := supriya.UGenTypes[u.Type]; !ok && !supriya.IsControlType(u.Type) {
			return nil, fmt.Errorf("%w: %q (ugen %d)", ErrUnknownUGen, u.Type, i)
		}
		if u.Rate > supriya.Demand {
			return nil, fmt.Errorf("%w: %d for %v (ugen %d)", ErrInvalidRate, u.Rate, u.Type, i)
		}
		u.Inputs = make([]supriya.Input, numInputs)
		for j := range u.Inputs {
			source, output := d.count(), d.count()
			if d.err != nil {
				return nil, d.err
			}
			if source == -1 {
				if output < 0 || output >= len(constants) {
					return nil, fmt.Errorf("%w: %v (ugen %d) reads constant %d of %d", ErrInvalidSignal, u.Type, i, output, len(constants))
				}
				u.Inputs[j] = supriya.Constant(constants[output])
				continue
			}
			if source < 0 || source >= i {
				return nil, fmt.Errorf("%w: %v (ugen %d) reads ugen %d", ErrForwardReference, u.Type, i, source)
			}
			u.Inputs[j] = supriya.Ref(source, output, ugens[source].Rate)
		}
		d.take(u.NumOutputs) // output rates, always the rate of the ugen
	}
	numVariants := d.i16()
	for i := 0; i < numVariants && d.err == nil; i++ {
		d.pstring()
		d.take(4 * len(values))
	}
	if d.err != nil {
		return nil, d.err
	}
	indexed, err := parametersOf(ugens, names, values)
	if err != nil {
		return nil, err
	}
	def, err := NewSynthDef(name, ugens, indexed)
	if err != nil {
		return nil, err
	}
	if def.name == def.anonymousName {
		def.name = ""
	}
	return def, nil
}

// parametersOf rebuilds the parameters from the parameter names and the
// control UGens. A parameter spans the values from its index up to the index
// of the next parameter. The control UGens get their Parameters filled in.
func parametersOf(ugens []supriya.UGen, names []namedIndex, values []float64) ([]supriya.IndexedParameter, error) {
	sorted := append([]namedIndex(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })
	params := map[int]supriya.Parameter{}
	for i, n := range sorted {
		end := len(values)
		if i+1 < len(sorted) {
			end = sorted[i+1].index
		}
		if n.index < 0 || n.index > end || end > len(values) {
			return nil, fmt.Errorf("%w: parameter %q at %d", ErrBadControl, n.name, n.index)
		}
		v := append([]float64(nil), values[n.index:end]...)
		params[n.index] = supriya.Parameter{Name: n.name, Rate: supriya.ControlParameter, Value: v}
	}
	for i := range ugens {
		u := &ugens[i]
		if !u.IsControl() {
			continue
		}
		offset, width := int(u.SpecialIndex), 0
		for width < u.NumOutputs {
			p, ok := params[offset+width]
			if !ok || p.Width() == 0 {
				return nil, fmt.Errorf("%w: %v (ugen %d) has no parameter at %d", ErrBadControl, u.Type, i, offset+width)
			}
			p.Rate = controlParameterRate(u)
			if u.Type == "LagControl" && width < len(u.Inputs) && u.Inputs[width].IsConstant() {
				p.Lag = u.Inputs[width].Value
			}
			params[offset+width] = p
			u.Parameters = append(u.Parameters, p.Copy())
			width += p.Width()
		}
		if width != u.NumOutputs {
			return nil, fmt.Errorf("%w: %v (ugen %d) has %d outputs, parameters span %d", ErrBadControl, u.Type, i, u.NumOutputs, width)
		}
	}
	ret := make([]supriya.IndexedParameter, len(names))
	for i, n := range names {
		ret[i] = supriya.IndexedParameter{Index: n.index, Parameter: params[n.index]}
	}
	return ret, nil
}

func controlParameterRate(u *supriya.UGen) supriya.ParameterRate {
	switch {
	case u.Type == "TrigControl":
		return supriya.TriggerParameter
	case u.Rate == supriya.Scalar:
		return supriya.ScalarParameter
	case u.Rate == supriya.Audio:
		return supriya.AudioParameter
	}
	return supriya.ControlParameter
}
