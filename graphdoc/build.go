package graphdoc

import (
	"fmt"
	"regexp"
	"strconv"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

var referenceRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[(\d+)\])?$`)

// Build constructs the graph of the document and builds it into a SynthDef.
// Optimization removes the UGens whose outputs are never read.
func (d *Document) Build(optimize bool) (*synthdef.SynthDef, error) {
	params := make([]supriya.Parameter, len(d.Parameters))
	for i, p := range d.Parameters {
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		params[i] = param
	}
	b, err := synthdef.NewBuilder(params...)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	signals := map[string]synthdef.Signal{}
	for i, u := range d.UGens {
		s, err := u.construct(b, signals)
		if err != nil {
			return nil, fmt.Errorf("ugen %d (%v): %w", i, u.Type, err)
		}
		if u.ID == "" {
			continue
		}
		if _, ok := signals[u.ID]; ok {
			return nil, fmt.Errorf("ugen %d: %w: %q", i, ErrDuplicateID, u.ID)
		}
		signals[u.ID] = s
	}
	return b.Build(d.Name, optimize)
}

func (p *ParameterDoc) parameter() (supriya.Parameter, error) {
	ret := supriya.NewParameter(p.Name, p.Value...)
	ret.Lag = p.Lag
	if p.Rate != "" {
		rate, err := supriya.ParseParameterRate(p.Rate)
		if err != nil {
			return supriya.Parameter{}, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		ret.Rate = rate
	}
	return ret, nil
}

func (u *UGenDoc) construct(b *synthdef.Builder, signals map[string]synthdef.Signal) (synthdef.Signal, error) {
	args := synthdef.Args{}
	for name, v := range u.Inputs {
		s, err := resolve(b, signals, v)
		if err != nil {
			return nil, fmt.Errorf("input %v: %w", name, err)
		}
		args[name] = s
	}
	switch u.Type {
	case "BinaryOpUGen":
		op, err := supriya.ParseBinaryOperator(u.Operator)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadOperator, err)
		}
		return b.BinaryOp(op, arg(args, "left", 0), arg(args, "right", 0))
	case "UnaryOpUGen":
		op, err := supriya.ParseUnaryOperator(u.Operator)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadOperator, err)
		}
		return b.UnaryOp(op, arg(args, "source", 0))
	case "MulAdd":
		return b.MulAdd(arg(args, "source", 0), arg(args, "multiplier", 1), arg(args, "addend", 0))
	}
	rate, err := u.rate()
	if err != nil {
		return nil, err
	}
	if u.Channels > 0 {
		args[synthdef.ChannelCount] = u.Channels
	}
	return b.New(u.Type, rate, args)
}

func arg(args synthdef.Args, name string, def float64) interface{} {
	if v, ok := args[name]; ok {
		return v
	}
	return def
}

// rate returns the rate of the UGen, defaulting to the fastest rate its type
// supports.
func (u *UGenDoc) rate() (supriya.CalculationRate, error) {
	if u.Rate != "" {
		return supriya.ParseCalculationRate(u.Rate)
	}
	t := supriya.UGenTypes[u.Type]
	for _, r := range []supriya.CalculationRate{supriya.Audio, supriya.Control, supriya.Scalar} {
		if t.ValidRate(r) {
			return r, nil
		}
	}
	return supriya.Demand, nil
}

// resolve turns an input value of a document into a signal.
func resolve(b *synthdef.Builder, signals map[string]synthdef.Signal, v interface{}) (synthdef.Signal, error) {
	switch v := v.(type) {
	case int:
		return synthdef.Signal{supriya.Constant(float64(v))}, nil
	case int64:
		return synthdef.Signal{supriya.Constant(float64(v))}, nil
	case uint64:
		return synthdef.Signal{supriya.Constant(float64(v))}, nil
	case float64:
		return synthdef.Signal{supriya.Constant(v)}, nil
	case string:
		return reference(b, signals, v)
	case []interface{}:
		var ret synthdef.Signal
		for _, e := range v {
			s, err := resolve(b, signals, e)
			if err != nil {
				return nil, err
			}
			ret = append(ret, s...)
		}
		if len(ret) == 0 {
			return nil, fmt.Errorf("%w: empty list", ErrBadInput)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("%w: %v (%T)", ErrBadInput, v, v)
}

func reference(b *synthdef.Builder, signals map[string]synthdef.Signal, ref string) (synthdef.Signal, error) {
	m := referenceRe.FindStringSubmatch(ref)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadInput, ref)
	}
	s, ok := signals[m[1]]
	if !ok {
		var err error
		if s, err = b.Parameter(m[1]); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReference, ref)
		}
	}
	if m[2] == "" {
		return s, nil
	}
	ch, _ := strconv.Atoi(m[2])
	if ch >= len(s) {
		return nil, fmt.Errorf("%w: %q has %d channels", ErrUnknownReference, ref, len(s))
	}
	return s[ch : ch+1], nil
}
