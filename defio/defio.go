// Package defio reads and writes .scsyndef files and splits definitions into
// batches small enough for a single server message.
package defio

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/supriya-project/supriya-sub004/synthdef"
)

// Extension is the file extension of compiled synth definition files.
const Extension = ".scsyndef"

// DefaultLimit is the largest message scsynth accepts over UDP.
const DefaultLimit = 8192

// Plan is the result of splitting definitions for sending. Each batch is sent
// as one message; oversized definitions have to be loaded from files.
type Plan struct {
	Batches   [][]*synthdef.SynthDef
	Oversized []*synthdef.SynthDef
}

// ReadFile decompiles all the definitions in a .scsyndef file.
func ReadFile(path string) ([]*synthdef.SynthDef, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read synthdef file")
	}
	defs, err := synthdef.Decompile(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decompile %v", path)
	}
	return defs, nil
}

// WriteFile compiles the definitions into a single file.
func WriteFile(path string, defs ...*synthdef.SynthDef) error {
	if len(defs) == 0 {
		return errors.New("no synthdefs to write")
	}
	if err := ioutil.WriteFile(path, synthdef.Compile(defs...), 0644); err != nil {
		return errors.Wrapf(err, "could not write %v", path)
	}
	return nil
}

// WriteDir writes each definition into its own file named after the
// definition, creating the directory if needed. It returns the paths written.
func WriteDir(dir string, defs ...*synthdef.SynthDef) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "could not create directory %v", dir)
	}
	paths := make([]string, 0, len(defs))
	for _, def := range defs {
		path := filepath.Join(dir, def.EffectiveName()+Extension)
		if err := WriteFile(path, def); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// NewPlan groups the definitions, in order, into batches whose total compiled
// size stays below limit. A definition larger than limit on its own is put in
// Oversized. A limit of zero or less means DefaultLimit.
func NewPlan(defs []*synthdef.SynthDef, limit int) Plan {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var plan Plan
	var batch []*synthdef.SynthDef
	total := 0
	for _, def := range defs {
		size := len(def.Compile())
		switch {
		case size > limit:
			plan.Oversized = append(plan.Oversized, def)
		case total+size < limit:
			batch = append(batch, def)
			total += size
		default:
			if len(batch) > 0 {
				plan.Batches = append(plan.Batches, batch)
			}
			batch = []*synthdef.SynthDef{def}
			total = size
		}
	}
	if len(batch) > 0 {
		plan.Batches = append(plan.Batches, batch)
	}
	return plan
}

// Messages compiles each batch of the plan into the payload of one message.
func (p *Plan) Messages() [][]byte {
	ret := make([][]byte, len(p.Batches))
	for i, batch := range p.Batches {
		ret[i] = synthdef.Compile(batch...)
	}
	return ret
}
