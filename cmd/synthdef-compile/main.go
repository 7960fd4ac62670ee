package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/supriya-project/supriya-sub004/defio"
	"github.com/supriya-project/supriya-sub004/graphdoc"
	"github.com/supriya-project/supriya-sub004/grapher"
	"github.com/supriya-project/supriya-sub004/synthdef"
	"github.com/supriya-project/supriya-sub004/version"
)

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	yamlOut := flag.Bool("y", false, "Output a readable .dump.yml listing of each synthdef instead of compiling.")
	jsonOut := flag.Bool("j", false, "Output each synthdef as a .json graph document instead of compiling.")
	graphOut := flag.Bool("g", false, "Output each synthdef as a Graphviz .dot graph instead of compiling.")
	optimize := flag.Bool("O", true, "Remove unused UGens when building graph documents.")
	batches := flag.Bool("b", false, "Print how the synthdefs would be batched for sending to the server.")
	limit := flag.Int("limit", defio.DefaultLimit, "Largest batch size in bytes, used with -b.")
	tmplDir := flag.String("t", "", "When graphing, use the templates in this directory instead of the standard templates.")
	outPath := flag.String("o", "", "Directory or filename where to write the output. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the working directory.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	compile := !*yamlOut && !*jsonOut && !*graphOut && !*batches
	var graph *grapher.Grapher
	if *graphOut {
		var err error
		if *tmplDir != "" {
			graph, err = grapher.NewFromTemplates(*tmplDir)
		} else {
			graph, err = grapher.New()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating grapher: %v\n", err)
			os.Exit(1)
		}
	}
	output := func(filename string, extension string, contents []byte) error {
		if *stdout {
			fmt.Print(string(contents))
			return nil
		}
		_, name := filepath.Split(filename)
		var dir string
		if *outPath != "" {
			// an existing directory given without the trailing slash
			if info, err := os.Stat(*outPath); err == nil && info.IsDir() {
				dir = *outPath
			} else {
				outdir, outname := filepath.Split(*outPath)
				if outdir != "" {
					dir = outdir
				}
				if outname != "" {
					name = outname
				}
			}
		}
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return errors.Wrap(err, "could not get working directory, specify the output directory explicitly")
			}
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
		f := filepath.Join(dir, name)
		original, err := ioutil.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil
			}
			if !*list && *safe {
				return errors.Errorf("file %v would be overwritten", f)
			}
		}
		if *list {
			fmt.Println(f)
			return nil
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.Wrapf(err, "could not create output directory %v", dir)
		}
		return errors.Wrapf(ioutil.WriteFile(f, contents, 0644), "could not write file %v", f)
	}
	var all []*synthdef.SynthDef
	process := func(filename string) error {
		defs, err := load(filename, *optimize)
		if err != nil {
			return err
		}
		all = append(all, defs...)
		if compile {
			if err := output(filename, defio.Extension, synthdef.Compile(defs...)); err != nil {
				return errors.Wrap(err, "error outputting synthdef file")
			}
		}
		for _, def := range defs {
			name := filename
			if len(defs) > 1 {
				name = filepath.Join(filepath.Dir(filename), def.EffectiveName())
			}
			if *yamlOut {
				dump, err := graphdoc.Dump(def)
				if err != nil {
					return errors.Wrapf(err, "could not dump %v", def.EffectiveName())
				}
				if err := output(name, ".dump.yml", dump); err != nil {
					return errors.Wrap(err, "error outputting yaml file")
				}
			}
			if *jsonOut {
				doc, err := graphdoc.FromSynthDef(def).JSON()
				if err != nil {
					return errors.Wrapf(err, "could not marshal %v as json", def.EffectiveName())
				}
				if err := output(name, ".json", doc); err != nil {
					return errors.Wrap(err, "error outputting json file")
				}
			}
			if *graphOut {
				dot, err := graph.Graph(def)
				if err != nil {
					return errors.Wrapf(err, "could not graph %v", def.EffectiveName())
				}
				if err := output(name, ".dot", []byte(dot)); err != nil {
					return errors.Wrap(err, "error outputting dot file")
				}
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			var files []string
			for _, ext := range []string{"*.yml", "*.json", "*" + defio.Extension} {
				matches, err := filepath.Glob(filepath.Join(param, ext))
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not glob the path %v for %v files: %v\n", param, ext, err)
					retval = 1
					continue
				}
				for _, m := range matches {
					if !strings.HasSuffix(m, ".dump.yml") {
						files = append(files, m)
					}
				}
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else if err := process(param); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
			retval = 1
		}
	}
	if *batches {
		printPlan(defio.NewPlan(all, *limit))
	}
	os.Exit(retval)
}

// load reads a compiled .scsyndef file, or builds the synthdef described by
// a .yml or .json graph document.
func load(filename string, optimize bool) ([]*synthdef.SynthDef, error) {
	if strings.EqualFold(filepath.Ext(filename), defio.Extension) {
		return defio.ReadFile(filename)
	}
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "could not read file")
	}
	doc, err := graphdoc.Parse(data)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		base := filepath.Base(filename)
		doc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	def, err := doc.Build(optimize)
	if err != nil {
		return nil, errors.Wrap(err, "could not build synthdef")
	}
	return []*synthdef.SynthDef{def}, nil
}

func printPlan(plan defio.Plan) {
	for i, msg := range plan.Messages() {
		names := make([]string, len(plan.Batches[i]))
		for j, def := range plan.Batches[i] {
			names[j] = def.EffectiveName()
		}
		fmt.Printf("batch %d (%d bytes): %s\n", i+1, len(msg), strings.Join(names, " "))
	}
	for _, def := range plan.Oversized {
		fmt.Printf("oversized (%d bytes): %s\n", len(def.Compile()), def.EffectiveName())
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "SynthDef compiler. Input .yml or .json graph documents or .scsyndef files, outputs compiled .scsyndef files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
