package synthdef

// eliminateDeadCode removes the pure UGens whose outputs nobody reads. Removing
// a UGen may leave its own inputs unread, so they are checked again, until
// nothing changes. Only types flagged Pure in the catalog are ever removed:
// outputs, controls and anything with side effects stay.
func (g *graph) eliminateDeadCode() {
	bundles := g.initiateSort()
	alive := make([]bool, len(g.ugens))
	for i := range alive {
		alive[i] = true
	}
	var eliminate func(i int)
	eliminate = func(i int) {
		if !alive[i] || !g.typeOf(i).Pure || len(bundles[i].descendants) > 0 {
			return
		}
		alive[i] = false
		for _, a := range bundles[i].antecedents {
			bundles[a].descendants = without(bundles[a].descendants, i)
			eliminate(a)
		}
	}
	for i := range g.ugens {
		eliminate(i)
	}
	g.keep(alive)
}
