// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

// signalGroups is a union-find of signal names. The representative of a group
// is its first seen member.
//
type signalGroups struct {
	index  map[string]int
	names  []string
	parent []int
}

func newSignalGroups() *signalGroups {
	return &signalGroups{index: make(map[string]int)}
}

func (g *signalGroups) id(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.index[name] = i
	g.names = append(g.names, name)
	g.parent = append(g.parent, i)
	return i
}

func (g *signalGroups) find(i int) int {
	r := i
	for g.parent[r] != r {
		r = g.parent[r]
	}
	for g.parent[i] != r {
		g.parent[i], i = r, g.parent[i]
	}
	return r
}

// union merges the groups of a and b.
//
func (g *signalGroups) union(a, b string) {
	ra, rb := g.find(g.id(a)), g.find(g.id(b))
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
}

// canonical returns the name of the group name belongs to. Names never seen
// by union are their own group.
//
func (g *signalGroups) canonical(name string) string {
	i, ok := g.index[name]
	if !ok {
		return name
	}
	return g.names[g.find(i)]
}

// members returns the names in the same group as name, in order of first
// appearance.
//
func (g *signalGroups) members(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return []string{name}
	}
	r := g.find(i)
	var ms []string
	for j, n := range g.names {
		if g.find(j) == r {
			ms = append(ms, n)
		}
	}
	return ms
}
