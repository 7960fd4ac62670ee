package graphdoc

import (
	"fmt"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

// FromSynthDef describes a SynthDef as a document, e.g. one read from a
// .scsyndef file. Control UGens become parameters and MaxLocalBufs is left
// out, as the builder adds them back. UGens are given the ids "u0", "u1",
// ... by their position in the SynthDef.
func FromSynthDef(def *synthdef.SynthDef) *Document {
	doc := &Document{Name: def.Name()}
	for _, p := range def.IndexedParameters() {
		doc.Parameters = append(doc.Parameters, ParameterDoc{
			Name:  p.Parameter.Name,
			Rate:  p.Parameter.Rate.String(),
			Value: p.Parameter.Value,
			Lag:   p.Parameter.Lag,
		})
	}
	ugens := def.UGens()
	for i := range ugens {
		u := &ugens[i]
		if u.IsControl() || u.Type == "MaxLocalBufs" {
			continue
		}
		t := supriya.UGenTypes[u.Type]
		ud := UGenDoc{ID: fmt.Sprintf("u%d", i), Type: u.Type, Rate: u.Rate.Token(), Inputs: map[string]interface{}{}}
		switch u.Type {
		case "BinaryOpUGen":
			ud.Operator = supriya.BinaryOperator(u.SpecialIndex).String()
		case "UnaryOpUGen":
			ud.Operator = supriya.UnaryOperator(u.SpecialIndex).String()
		}
		if t.SettableChannels && u.NumOutputs != t.Outputs {
			ud.Channels = u.NumOutputs
		}
		inputs := u.Inputs
		if u.Type == "LocalBuf" && len(inputs) > 2 {
			inputs = inputs[:2]
		}
		for j, spec := range t.Inputs {
			if j >= len(inputs) {
				break
			}
			if spec.Unexpanded {
				list := make([]interface{}, 0, len(inputs)-j)
				for _, in := range inputs[j:] {
					list = append(list, inputValue(ugens, in))
				}
				ud.Inputs[spec.Name] = list
				break
			}
			ud.Inputs[spec.Name] = inputValue(ugens, inputs[j])
		}
		doc.UGens = append(doc.UGens, ud)
	}
	return doc
}

func inputValue(ugens []supriya.UGen, in supriya.Input) interface{} {
	if in.IsConstant() {
		return in.Value
	}
	source := &ugens[in.Source]
	if source.IsControl() {
		p, ch, _ := source.ParameterForOutput(in.Output)
		if p.Width() == 1 {
			return p.Name
		}
		return fmt.Sprintf("%s[%d]", p.Name, ch)
	}
	if source.NumOutputs == 1 {
		return fmt.Sprintf("u%d", in.Source)
	}
	return fmt.Sprintf("u%d[%d]", in.Source, in.Output)
}
