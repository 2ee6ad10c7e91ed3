package skeleton

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BoneDataPrefix names the indexed armature properties that override the
// native hierarchy, e.g. "BoneData:0" = "Hip,1,,0,...".
const BoneDataPrefix = "BoneData:"

// ErrCyclicHierarchy is returned when the resolved parent links form a loop.
var ErrCyclicHierarchy = errors.New("skeleton: cyclic bone hierarchy")

// CycleError names the bone where a cycle was detected and the loop itself.
type CycleError struct {
	Bone  string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("skeleton: cyclic hierarchy at %q: %s", e.Bone, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicHierarchy }

// Record is one indexed override entry.
type Record struct {
	Index int
	Value string
}

// RecordsFromProperties extracts BoneData records from an armature property
// bag, sorted by index. Keys with a malformed index are ignored.
func RecordsFromProperties(props map[string]string) []Record {
	var recs []Record
	for k, v := range props {
		if !strings.HasPrefix(k, BoneDataPrefix) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(k, BoneDataPrefix))
		if err != nil || idx < 0 {
			continue
		}
		recs = append(recs, Record{Index: idx, Value: v})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })
	return recs
}

// HasOverride reports whether the property bag carries the first override record.
func HasOverride(props map[string]string) bool {
	_, ok := props[BoneDataPrefix+"0"]
	return ok
}

// Resolve builds the parent map for s. With useOverride, records of the form
// "name,?,parentName,?,?" replace native links for the bones they name; a
// parent unknown to the skeleton resolves to no parent. Records naming an
// unknown bone, or without exactly five fields, are skipped and described in
// the returned notes. Bones not covered by any record keep their native parent.
func Resolve(s *Skeleton, records []Record, useOverride bool) (*ParentMap, []string, error) {
	parent := make(map[string]string, s.Len())
	overridden := make(map[string]bool)
	var notes []string

	if useOverride {
		for _, rec := range records {
			elems := strings.Split(rec.Value, ",")
			if len(elems) != 5 {
				notes = append(notes, fmt.Sprintf("%s%d: expected 5 fields, got %d", BoneDataPrefix, rec.Index, len(elems)))
				continue
			}
			child, par := elems[0], elems[2]
			if !s.Has(child) {
				notes = append(notes, fmt.Sprintf("%s%d: unknown bone %q", BoneDataPrefix, rec.Index, child))
				continue
			}
			if !s.Has(par) {
				par = ""
			}
			parent[child] = par
			overridden[child] = true
		}
	}

	order := make([]string, 0, s.Len())
	for _, b := range s.bones {
		order = append(order, b.Name)
		if !overridden[b.Name] {
			parent[b.Name] = b.Parent
		}
	}

	if err := checkAcyclic(order, parent); err != nil {
		return nil, notes, err
	}
	return newParentMap(order, parent), notes, nil
}

func checkAcyclic(order []string, parent map[string]string) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(order))

	for _, start := range order {
		if state[start] == done {
			continue
		}
		var chain []string
		cur := start
		for cur != "" && state[cur] != done {
			if state[cur] == visiting {
				loop := loopFrom(chain, cur)
				return &CycleError{Bone: cur, Chain: loop}
			}
			state[cur] = visiting
			chain = append(chain, cur)
			cur = parent[cur]
		}
		for _, name := range chain {
			state[name] = done
		}
	}
	return nil
}

func loopFrom(chain []string, at string) []string {
	for i, name := range chain {
		if name == at {
			loop := append([]string{}, chain[i:]...)
			return append(loop, at)
		}
	}
	return append(chain, at)
}
