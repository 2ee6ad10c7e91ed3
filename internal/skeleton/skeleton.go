// Package skeleton models bone hierarchies and resolves the parent map used
// for one export.
package skeleton

import "fmt"

// Bone is one node of a skeleton. An empty Parent marks a root.
type Bone struct {
	Name   string
	Parent string
}

// Skeleton is an ordered, name-indexed snapshot of a host armature.
type Skeleton struct {
	bones    []Bone
	index    map[string]int
	children map[string][]string
}

// New validates bones and derives the child lists. Names must be unique,
// every non-empty parent must name a bone of the same snapshot and the
// native links must not loop.
func New(bones []Bone) (*Skeleton, error) {
	s := &Skeleton{
		bones:    make([]Bone, len(bones)),
		index:    make(map[string]int, len(bones)),
		children: make(map[string][]string),
	}
	copy(s.bones, bones)

	for i, b := range s.bones {
		if b.Name == "" {
			return nil, fmt.Errorf("skeleton: bone %d has no name", i)
		}
		if _, dup := s.index[b.Name]; dup {
			return nil, fmt.Errorf("skeleton: duplicate bone %q", b.Name)
		}
		s.index[b.Name] = i
	}
	for _, b := range s.bones {
		if b.Parent == "" {
			continue
		}
		if _, ok := s.index[b.Parent]; !ok {
			return nil, fmt.Errorf("skeleton: bone %q references unknown parent %q", b.Name, b.Parent)
		}
		s.children[b.Parent] = append(s.children[b.Parent], b.Name)
	}

	order := make([]string, len(s.bones))
	parent := make(map[string]string, len(s.bones))
	for i, b := range s.bones {
		order[i] = b.Name
		parent[b.Name] = b.Parent
	}
	if err := checkAcyclic(order, parent); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.bones) }

// Bones returns the bones in snapshot order.
func (s *Skeleton) Bones() []Bone {
	out := make([]Bone, len(s.bones))
	copy(out, s.bones)
	return out
}

// Has reports whether a bone called name exists.
func (s *Skeleton) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Bone looks a bone up by name.
func (s *Skeleton) Bone(name string) (Bone, bool) {
	i, ok := s.index[name]
	if !ok {
		return Bone{}, false
	}
	return s.bones[i], true
}

// Children returns the native children of name in snapshot order.
func (s *Skeleton) Children(name string) []string {
	return s.children[name]
}
