// Package graphdoc reads and writes synth graphs as YAML or JSON documents.
//
// A document lists the parameters and the UGens of a graph, the UGens in
// construction order. Each UGen may be given an id, by which later UGens
// refer to its outputs:
//
//	name: sine
//	parameters:
//	  - {name: freq, value: [440]}
//	ugens:
//	  - {id: osc, type: SinOsc, rate: ar, inputs: {frequency: freq}}
//	  - {type: Out, rate: ar, inputs: {bus: 0, source: [osc, osc]}}
//
// Input values are numbers, lists of numbers and references. A reference is
// the id of a UGen or the name of a parameter, meaning all of its channels,
// or "id[i]", meaning channel i only. Lists can mix numbers and references;
// a list is a multichannel signal.
package graphdoc

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// Document is a synth graph in a form that can be written by hand.
	Document struct {
		Name       string         `yaml:",omitempty" json:"name,omitempty"`
		Parameters []ParameterDoc `yaml:",omitempty" json:"parameters,omitempty"`
		UGens      []UGenDoc      `json:"ugens"`
	}

	// ParameterDoc declares a synth parameter. Without a rate, the rate is
	// inferred from the name prefix.
	ParameterDoc struct {
		Name  string    `json:"name"`
		Rate  string    `yaml:",omitempty" json:"rate,omitempty"`
		Value []float64 `yaml:",flow,omitempty" json:"value,omitempty"`
		Lag   float64   `yaml:",omitempty" json:"lag,omitempty"`
	}

	// UGenDoc is one UGen of a document. Operator is only used by
	// BinaryOpUGen and UnaryOpUGen, Channels only by types with a settable
	// number of outputs. Without a rate, the UGen runs at the fastest rate
	// its type supports.
	UGenDoc struct {
		ID       string                 `yaml:",omitempty" json:"id,omitempty"`
		Type     string                 `json:"type"`
		Rate     string                 `yaml:",omitempty" json:"rate,omitempty"`
		Operator string                 `yaml:",omitempty" json:"operator,omitempty"`
		Channels int                    `yaml:",omitempty" json:"channels,omitempty"`
		Inputs   map[string]interface{} `yaml:",omitempty" json:"inputs,omitempty"`
	}
)

var (
	ErrUnknownReference = errors.New("unknown reference")
	ErrDuplicateID      = errors.New("duplicate ugen id")
	ErrBadInput         = errors.New("bad input value")
	ErrBadOperator      = errors.New("bad operator")
)

// Parse reads a document in JSON or YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if errJSON := json.Unmarshal(data, &doc); errJSON != nil {
		doc = Document{}
		if errYaml := yaml.Unmarshal(data, &doc); errYaml != nil {
			return nil, fmt.Errorf("document could not be unmarshaled as a .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return &doc, nil
}

// YAML returns the document in YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// JSON returns the document in indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
