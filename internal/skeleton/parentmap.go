package skeleton

import "strings"

// ParentMap maps every bone of a skeleton to its export parent. It is built
// once per export by Resolve and never mutated afterwards.
type ParentMap struct {
	order    []string
	parent   map[string]string
	children map[string][]string
}

func newParentMap(order []string, parent map[string]string) *ParentMap {
	pm := &ParentMap{
		order:    order,
		parent:   parent,
		children: make(map[string][]string),
	}
	for _, name := range order {
		if p := parent[name]; p != "" {
			pm.children[p] = append(pm.children[p], name)
		}
	}
	return pm
}

// Names returns all bones in skeleton order.
func (pm *ParentMap) Names() []string {
	out := make([]string, len(pm.order))
	copy(out, pm.order)
	return out
}

// Len returns the number of bones.
func (pm *ParentMap) Len() int { return len(pm.order) }

// Has reports whether name is covered by the map.
func (pm *ParentMap) Has(name string) bool {
	_, ok := pm.parent[name]
	return ok
}

// Parent returns the parent of name; ok is false for roots and unknown bones.
func (pm *ParentMap) Parent(name string) (parent string, ok bool) {
	p := pm.parent[name]
	return p, p != ""
}

// IsRoot reports whether name has no parent.
func (pm *ParentMap) IsRoot(name string) bool {
	return pm.parent[name] == ""
}

// Children returns the bones whose resolved parent is name.
func (pm *ParentMap) Children(name string) []string {
	return pm.children[name]
}

// Ancestors returns the chain from name's parent up to its root.
func (pm *ParentMap) Ancestors(name string) []string {
	var chain []string
	for p := pm.parent[name]; p != ""; p = pm.parent[p] {
		chain = append(chain, p)
	}
	return chain
}

// Path joins the root-to-leaf chain of name with '/'. When keep is non-nil,
// ancestors for which keep returns false are left out of the path.
func (pm *ParentMap) Path(name string, keep func(string) bool) string {
	ancestors := pm.Ancestors(name)
	segs := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		if keep == nil || keep(ancestors[i]) {
			segs = append(segs, ancestors[i])
		}
	}
	segs = append(segs, name)
	return strings.Join(segs, "/")
}
