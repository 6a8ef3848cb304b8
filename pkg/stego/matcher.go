package stego

import "sort"

// matchGreedy consumes the lightest available edge of each vertex in
// side, most constrained (fewest edges) vertices first. A successful
// edge swaps the two chosen samples and invalidates both endpoints;
// vertices that find no valid partner come back as leftovers, still
// valid. Every edge list touched by the arena is cleared before
// returning, so the arena can be dropped by the caller.
func matchGreedy(view *sampleView, vertices []vertex, arena []edge, side []*vertex, mask uint8) []*vertex {
	order := make([]*vertex, len(side))
	copy(order, side)
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].edges) < len(order[j].edges)
	})

	var leftovers []*vertex
	for _, u := range order {
		if !u.isValid {
			continue
		}
		sort.SliceStable(u.edges, func(i, j int) bool {
			return arena[u.edges[i]].weight < arena[u.edges[j]].weight
		})
		matched := false
		for _, ei := range u.edges {
			e := &arena[ei]
			other, us, vs := e.v, e.su, e.sv
			if int(e.v) == u.id {
				other, us, vs = e.u, e.sv, e.su
			}
			v := &vertices[other]
			if !v.isValid || v.id == u.id {
				continue
			}
			view.swap(u.samples[us], v.samples[vs])
			u.refresh(view, mask)
			v.refresh(view, mask)
			u.isValid = false
			v.isValid = false
			matched = true
			break
		}
		if !matched {
			leftovers = append(leftovers, u)
		}
	}

	for i := range arena {
		vertices[arena[i].u].edges = nil
		vertices[arena[i].v].edges = nil
	}
	return leftovers
}
