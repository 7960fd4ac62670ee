// Package grapher renders SynthDefs as Graphviz graphs.
package grapher

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/supriya-project/supriya-sub004/synthdef"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Grapher struct {
	Template *template.Template
}

type (
	// Node is one UGen of the graph, as seen by the templates.
	Node struct {
		ID        string
		Title     string
		RateLabel string
		Color     string
		Inputs    []Port
		Outputs   []Port
	}

	// Port is an input or an output of a node. Constant inputs show their
	// value in the label and get no edge.
	Port struct {
		Index int
		Label string
	}

	Edge struct {
		From   string
		Output int
		To     string
		Input  int
		Color  string
	}

	// Graph is the data the templates are executed with.
	Graph struct {
		Name     string
		Controls []Node
		UGens    []Node
		Edges    []Edge
	}
)

//go:embed templates/*
var templateFS embed.FS

const templateName = "graph.dot"

var rateColors = [...]string{
	supriya.Scalar:  "salmon2",
	supriya.Control: "lightgoldenrod2",
	supriya.Audio:   "lightsteelblue2",
	supriya.Demand:  "grey80",
}

// titleCase title-cases labels; a Caser keeps state, so one is made per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// New returns a grapher using the default template.
func New() (*Grapher, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Grapher{Template: tmpl}, nil
}

// NewFromTemplates returns a grapher using the templates in a directory,
// which must define graph.dot.
func NewFromTemplates(templateDirectory string) (*Grapher, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Grapher{Template: tmpl}, nil
}

// Graph renders the SynthDef in the DOT language.
func (g *Grapher) Graph(def *synthdef.SynthDef) (string, error) {
	var buf bytes.Buffer
	if err := g.Template.ExecuteTemplate(&buf, templateName, NewGraph(def)); err != nil {
		return "", fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return buf.String(), nil
}

// NewGraph collects the nodes and the edges of a SynthDef. Control UGens are
// listed apart so that templates can cluster them.
func NewGraph(def *synthdef.SynthDef) *Graph {
	ret := &Graph{Name: def.EffectiveName()}
	ugens := def.UGens()
	for i := range ugens {
		u := &ugens[i]
		n := Node{
			ID:        nodeID(i),
			Title:     nodeTitle(u),
			RateLabel: titleCase(u.Rate.String()),
			Color:     rateColor(u.Rate),
		}
		for j, in := range u.Inputs {
			label := u.InputName(j)
			if in.IsConstant() {
				label += ": " + strconv.FormatFloat(in.Value, 'g', -1, 64)
			} else {
				ret.Edges = append(ret.Edges, Edge{From: nodeID(in.Source), Output: in.Output, To: n.ID, Input: j, Color: rateColor(in.Rate)})
			}
			n.Inputs = append(n.Inputs, Port{Index: j, Label: label})
		}
		for o := 0; o < u.NumOutputs; o++ {
			port := Port{Index: o}
			if p, ch, ok := u.ParameterForOutput(o); ok {
				port.Label = p.Name
				if p.Width() > 1 {
					port.Label = fmt.Sprintf("%s[%d]", p.Name, ch)
				}
			}
			n.Outputs = append(n.Outputs, port)
		}
		if u.IsControl() {
			ret.Controls = append(ret.Controls, n)
		} else {
			ret.UGens = append(ret.UGens, n)
		}
	}
	return ret
}

func nodeID(i int) string {
	return "ugen_" + strconv.Itoa(i)
}

// nodeTitle is the type of the UGen, with the operator for operator UGens,
// e.g. "BinaryOpUGen\nFloat Division".
func nodeTitle(u *supriya.UGen) string {
	var op string
	switch u.Type {
	case "BinaryOpUGen":
		op = supriya.BinaryOperator(u.SpecialIndex).String()
	case "UnaryOpUGen":
		op = supriya.UnaryOperator(u.SpecialIndex).String()
	default:
		return u.Type
	}
	return u.Type + `\n` + titleCase(strings.ToLower(strings.ReplaceAll(op, "_", " ")))
}

func rateColor(r supriya.CalculationRate) string {
	if r < 0 || int(r) >= len(rateColors) {
		return "white"
	}
	return rateColors[r]
}
