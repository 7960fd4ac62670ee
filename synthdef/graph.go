package synthdef

import (
	supriya "github.com/supriya-project/supriya-sub004"
)

// graph is the working copy of a builder's UGens while a SynthDef is being
// built. UGens refer to each other by position, so every pass that inserts,
// removes or reorders UGens rewrites the references through remap.
type graph struct {
	ugens []supriya.UGen
}

func newGraph(ugens []supriya.UGen) *graph {
	g := &graph{ugens: make([]supriya.UGen, len(ugens))}
	for i := range ugens {
		g.ugens[i] = ugens[i].Copy()
	}
	return g
}

// remap rewrites every UGen reference with the new position given by
// newIndex. References to UGens mapped to -1 are left as they are; callers
// make sure there are none.
func (g *graph) remap(newIndex []int) {
	for i := range g.ugens {
		inputs := g.ugens[i].Inputs
		for j, in := range inputs {
			if in.Kind == supriya.UGenInput && in.Source < len(newIndex) && newIndex[in.Source] >= 0 {
				inputs[j].Source = newIndex[in.Source]
			}
		}
	}
}

// insert inserts UGens before position pos. The inserted UGens may refer to
// positions of the graph after the insertion.
func (g *graph) insert(pos int, ugens ...supriya.UGen) {
	newIndex := make([]int, len(g.ugens))
	for i := range newIndex {
		if i < pos {
			newIndex[i] = i
		} else {
			newIndex[i] = i + len(ugens)
		}
	}
	g.remap(newIndex)
	ret := make([]supriya.UGen, 0, len(g.ugens)+len(ugens))
	ret = append(ret, g.ugens[:pos]...)
	ret = append(ret, ugens...)
	g.ugens = append(ret, g.ugens[pos:]...)
}

// keep drops every UGen i for which alive[i] is false.
func (g *graph) keep(alive []bool) {
	newIndex := make([]int, len(g.ugens))
	ret := make([]supriya.UGen, 0, len(g.ugens))
	for i, u := range g.ugens {
		if !alive[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(ret)
		ret = append(ret, u)
	}
	g.ugens = ret
	g.remap(newIndex)
}

// reorder puts the UGens in the given order; order[k] is the old position of
// the UGen that goes to position k.
func (g *graph) reorder(order []int) {
	newIndex := make([]int, len(g.ugens))
	ret := make([]supriya.UGen, len(order))
	for k, old := range order {
		newIndex[old] = k
		ret[k] = g.ugens[old]
	}
	g.ugens = ret
	g.remap(newIndex)
}

func (g *graph) typeOf(i int) supriya.UGenType {
	return supriya.UGenTypes[g.ugens[i].Type]
}
