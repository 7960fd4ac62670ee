package defio_test

import (
	"bytes"
	"errors"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/supriya-project/supriya-sub004/defio"
	"github.com/supriya-project/supriya-sub004/synthdef"
)

func noise(t *testing.T, name string) *synthdef.SynthDef {
	t.Helper()
	d, err := synthdef.Define(name, func(b *synthdef.Builder) error {
		n, err := b.AR("WhiteNoise", nil)
		if err != nil {
			return err
		}
		_, err = b.AR("Out", synthdef.Args{"bus": 0, "source": n})
		return err
	})
	if err != nil {
		t.Fatalf("could not build synthdef: %v", err)
	}
	return d
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	a, b := noise(t, "a"), noise(t, "b")
	path := filepath.Join(dir, "both"+defio.Extension)
	if err := defio.WriteFile(path, a, b); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	defs, err := defio.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(defs) != 2 || defs[0].Name() != "a" || defs[1].Name() != "b" {
		t.Fatalf("expected synthdefs a and b, got %v", defs)
	}
	if !bytes.Equal(defs[1].Compile(), b.Compile()) {
		t.Fatalf("synthdef read back compiles differently")
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "defs")
	named, anonymous := noise(t, "named"), noise(t, "")
	paths, err := defio.WriteDir(dir, named, anonymous)
	if err != nil {
		t.Fatalf("WriteDir failed: %v", err)
	}
	expected := []string{
		filepath.Join(dir, "named.scsyndef"),
		filepath.Join(dir, anonymous.AnonymousName()+".scsyndef"),
	}
	if !reflect.DeepEqual(paths, expected) {
		t.Fatalf("wrong paths. got: %v expected: %v", paths, expected)
	}
	data, err := ioutil.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("could not read %v: %v", paths[1], err)
	}
	if !bytes.Equal(data, anonymous.Compile()) {
		t.Fatalf("file contents differ from the compiled synthdef")
	}
}

func TestWriteNothing(t *testing.T) {
	if err := defio.WriteFile(filepath.Join(t.TempDir(), "empty.scsyndef")); err == nil {
		t.Fatalf("writing no synthdefs should fail")
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := defio.ReadFile(filepath.Join(dir, "missing.scsyndef")); err == nil {
		t.Fatalf("reading a missing file should fail")
	}
	bad := filepath.Join(dir, "bad.scsyndef")
	if err := ioutil.WriteFile(bad, []byte("RIFF\x00\x00\x00\x02\x00\x00"), 0644); err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	if _, err := defio.ReadFile(bad); !errors.Is(err, synthdef.ErrBadMagic) {
		t.Fatalf("expected %v, got %v", synthdef.ErrBadMagic, err)
	}
}

func TestPlan(t *testing.T) {
	defs := []*synthdef.SynthDef{noise(t, "a"), noise(t, "b"), noise(t, "c"), noise(t, "d"), noise(t, "e")}
	size := len(defs[0].Compile())
	tests := []struct {
		name      string
		limit     int
		batches   []int
		oversized int
	}{
		{"default limit", 0, []int{5}, 0},
		{"two per batch", 2*size + 1, []int{2, 2, 1}, 0},
		{"exact fit starts a new batch", 2 * size, []int{1, 1, 1, 1, 1}, 0},
		{"all oversized", size - 1, nil, 5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			plan := defio.NewPlan(defs, test.limit)
			var batches []int
			for _, b := range plan.Batches {
				batches = append(batches, len(b))
			}
			if !reflect.DeepEqual(batches, test.batches) {
				t.Fatalf("wrong batch sizes. got: %v expected: %v", batches, test.batches)
			}
			if len(plan.Oversized) != test.oversized {
				t.Fatalf("expected %d oversized synthdefs, got %d", test.oversized, len(plan.Oversized))
			}
		})
	}
}

func TestPlanMessages(t *testing.T) {
	defs := []*synthdef.SynthDef{noise(t, "a"), noise(t, "b"), noise(t, "c")}
	plan := defio.NewPlan(defs, 2*len(defs[0].Compile())+1)
	messages := plan.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(messages))
	}
	back, err := synthdef.Decompile(messages[0])
	if err != nil {
		t.Fatalf("Decompile failed: %v", err)
	}
	if len(back) != 2 || back[0].Name() != "a" || back[1].Name() != "b" {
		t.Fatalf("first message should carry a and b, got %v", back)
	}
}
