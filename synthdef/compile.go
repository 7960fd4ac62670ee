package synthdef

import (
	"bytes"
	"encoding/binary"
	"math"

	supriya "github.com/supriya-project/supriya-sub004"
	"github.com/viterin/vek/vek32"
)

const (
	fileMagic   = "SCgf"
	fileVersion = 2
)

// encoder writes the big-endian primitives of the synthdef file format.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) i16(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	e.buf.Write(b[:])
}

func (e *encoder) i32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.buf.Write(b[:])
}

// floats writes the values as float32, preceded by their count.
func (e *encoder) floats(values []float64) {
	e.i32(int32(len(values)))
	var b [4]byte
	for _, f := range vek32.FromFloat64(values) {
		binary.BigEndian.PutUint32(b[:], math.Float32bits(f))
		e.buf.Write(b[:])
	}
}

// pstring writes a string preceded by its length as a single byte. Names
// are checked when a SynthDef is created, so they always fit.
func (e *encoder) pstring(s string) {
	e.u8(uint8(len(s)))
	e.buf.WriteString(s)
}

// Compile returns a synthdef file holding the given definitions, ready to be
// written to disk or sent to the server in a /d_recv message.
func Compile(defs ...*SynthDef) []byte {
	var e encoder
	e.buf.WriteString(fileMagic)
	e.i32(fileVersion)
	e.i16(int16(len(defs)))
	for _, d := range defs {
		e.pstring(d.EffectiveName())
		e.buf.Write(d.body)
	}
	return e.buf.Bytes()
}

func compileBody(d *SynthDef) []byte {
	var e encoder
	e.floats(d.constants)
	e.floats(d.ParameterValues())
	e.i32(int32(len(d.indexedParameters)))
	for _, p := range d.indexedParameters {
		e.pstring(p.Parameter.Name)
		e.i32(int32(p.Index))
	}
	e.i32(int32(len(d.ugens)))
	for i := range d.ugens {
		u := &d.ugens[i]
		e.pstring(u.Type)
		e.u8(uint8(u.Rate))
		e.i32(int32(len(u.Inputs)))
		e.i32(int32(u.NumOutputs))
		e.i16(u.SpecialIndex)
		for _, in := range u.Inputs {
			if in.Kind == supriya.ConstantInput {
				e.i32(-1)
				e.i32(int32(d.constantIndex[constantKey(in.Value)]))
				continue
			}
			e.i32(int32(in.Source))
			e.i32(int32(in.Output))
		}
		for o := 0; o < u.NumOutputs; o++ {
			e.u8(uint8(u.Rate))
		}
	}
	e.i16(0) // variants
	return e.buf.Bytes()
}
