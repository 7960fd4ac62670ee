package graphdoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
	"gopkg.in/yaml.v3"
)

// Dump renders a SynthDef as YAML for reading and diffing:
//
//	synthdef:
//	  name: foo
//	  ugens:
//	    - SinOsc.ar/0:
//	        frequency: 420.0
//	        phase: 0.0
//	    - SinOsc.ar/1:
//	        frequency: 440.0
//	        phase: 0.0
//	    - BinaryOpUGen(MULTIPLICATION).ar:
//	        left: SinOsc.ar/0[0]
//	        right: SinOsc.ar/1[0]
//	    - Out.ar:
//	        bus: 0.0
//	        source[0]: BinaryOpUGen(MULTIPLICATION).ar[0]
//
// UGens are keyed by type and rate; keys used more than once get the suffix
// "/n". Control UGens list the values of the parameters they carry, and their
// outputs are shown with the parameter, and channel, they carry.
func Dump(def *synthdef.SynthDef) ([]byte, error) {
	ugens := def.UGens()
	keys := ugenKeys(ugens)
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range ugens {
		u := &ugens[i]
		inputs := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range u.Parameters {
			for ch, v := range p.Value {
				key := p.Name
				if p.Width() > 1 {
					key = fmt.Sprintf("%s[%d]", p.Name, ch)
				}
				inputs.Content = append(inputs.Content, str(key), floatNode(v))
			}
		}
		for j, in := range u.Inputs {
			var value *yaml.Node
			if in.IsConstant() {
				value = floatNode(in.Value)
			} else {
				value = str(dumpReference(ugens, keys, in))
			}
			inputs.Content = append(inputs.Content, str(u.InputName(j)), value)
		}
		if len(inputs.Content) == 0 {
			inputs = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		list.Content = append(list.Content, &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str(keys[i]), inputs}})
	}
	name := str(def.EffectiveName())
	body := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str("name"), name, str("ugens"), list}}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str("synthdef"), body}}
	return yaml.Marshal(root)
}

func ugenKeys(ugens []supriya.UGen) []string {
	keys := make([]string, len(ugens))
	counts := map[string]int{}
	for i := range ugens {
		keys[i] = ugenKey(&ugens[i])
		counts[keys[i]]++
	}
	seen := map[string]int{}
	for i, k := range keys {
		if counts[k] > 1 {
			keys[i] = fmt.Sprintf("%s/%d", k, seen[k])
			seen[k]++
		}
	}
	return keys
}

func ugenKey(u *supriya.UGen) string {
	var sb strings.Builder
	sb.WriteString(u.Type)
	switch u.Type {
	case "BinaryOpUGen":
		fmt.Fprintf(&sb, "(%v)", supriya.BinaryOperator(u.SpecialIndex))
	case "UnaryOpUGen":
		fmt.Fprintf(&sb, "(%v)", supriya.UnaryOperator(u.SpecialIndex))
	}
	sb.WriteByte('.')
	sb.WriteString(u.Rate.Token())
	return sb.String()
}

func dumpReference(ugens []supriya.UGen, keys []string, in supriya.Input) string {
	source := &ugens[in.Source]
	if source.IsControl() {
		if p, ch, ok := source.ParameterForOutput(in.Output); ok {
			if p.Width() > 1 {
				return fmt.Sprintf("%s[%d:%s[%d]]", keys[in.Source], in.Output, p.Name, ch)
			}
			return fmt.Sprintf("%s[%d:%s]", keys[in.Source], in.Output, p.Name)
		}
	}
	return fmt.Sprintf("%s[%d]", keys[in.Source], in.Output)
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	case math.IsNaN(v):
		return ".nan"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func floatNode(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v)}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
