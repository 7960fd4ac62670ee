package synthdef

import (
	"fmt"
	"sort"

	supriya "github.com/supriya-project/supriya-sub004"
)

// sortBundle holds the edges of one UGen while the graph is being optimized
// and sorted. Antecedents are the UGens that must come before this one,
// descendants the UGens that must come after it.
type sortBundle struct {
	antecedents           []int
	descendants           []int
	widthFirstAntecedents []int
}

// initiateSort computes the sort bundles of the graph. Besides the data
// dependencies, every width-first UGen (FFT chains, LocalBuf) is an
// antecedent of every UGen declared after it. Descendants are listed in
// declaration order.
func (g *graph) initiateSort() []sortBundle {
	bundles := make([]sortBundle, len(g.ugens))
	var widthFirst []int
	for i := range g.ugens {
		bundles[i].widthFirstAntecedents = append([]int(nil), widthFirst...)
		if g.typeOf(i).WidthFirst {
			widthFirst = append(widthFirst, i)
		}
	}
	edge := func(antecedent, descendant int) {
		if !contains(bundles[descendant].antecedents, antecedent) {
			bundles[descendant].antecedents = append(bundles[descendant].antecedents, antecedent)
		}
		if !contains(bundles[antecedent].descendants, descendant) {
			bundles[antecedent].descendants = append(bundles[antecedent].descendants, descendant)
		}
	}
	for i, u := range g.ugens {
		for _, in := range u.Inputs {
			if in.Kind == supriya.UGenInput {
				edge(in.Source, i)
			}
		}
		for _, a := range bundles[i].widthFirstAntecedents {
			edge(a, i)
		}
	}
	for i := range bundles {
		sort.Ints(bundles[i].descendants)
	}
	return bundles
}

// sortTopologically orders the UGens so that every UGen comes after the UGens
// it reads from. Among the UGens that are ready, the one declared first is
// emitted first, and a UGen's descendants are emitted as soon as they become
// ready; this reproduces the order sclang gives to the same graph.
func (g *graph) sortTopologically() error {
	bundles := g.initiateSort()
	queued := make([]bool, len(g.ugens))
	var available []int
	for i := len(g.ugens) - 1; i >= 0; i-- {
		if len(bundles[i].antecedents) == 0 {
			available = append(available, i)
			queued[i] = true
		}
	}
	order := make([]int, 0, len(g.ugens))
	for len(available) > 0 {
		u := available[len(available)-1]
		available = available[:len(available)-1]
		descendants := bundles[u].descendants
		for j := len(descendants) - 1; j >= 0; j-- {
			d := descendants[j]
			bundles[d].antecedents = without(bundles[d].antecedents, u)
			if len(bundles[d].antecedents) == 0 && !queued[d] {
				available = append(available, d)
				queued[d] = true
			}
		}
		order = append(order, u)
	}
	if len(order) != len(g.ugens) {
		for i := range g.ugens {
			if !queued[i] {
				return fmt.Errorf("%w: %v (ugen %d) is never ready", ErrCycle, g.ugens[i].Type, i)
			}
		}
		return ErrCycle
	}
	g.reorder(order)
	return nil
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func without(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
