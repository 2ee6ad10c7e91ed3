// Package bonefilter decides which bones of a resolved hierarchy are exported.
package bonefilter

import "anm-exporter/internal/skeleton"

// Options selects the removal policies.
type Options struct {
	RemoveUnkeyed        bool
	RemoveOrphans        bool
	RemoveIK             bool
	RemoveSerialNumbered bool
	RemoveJapanese       bool

	// IKMarkers are lower-case substrings marking IK bones.
	IKMarkers []string
	// NubMarkers are lower-case suffixes marking chain-end helpers.
	NubMarkers []string
	// NubSuffix is matched case-sensitively against the end of the name.
	NubSuffix string
}

// DefaultOptions mirrors the exporter defaults.
func DefaultOptions() Options {
	return Options{
		RemoveOrphans:        true,
		RemoveIK:             true,
		RemoveSerialNumbered: true,
		RemoveJapanese:       true,
		IKMarkers:            []string{"_ik_"},
		NubMarkers:           []string{"_nub"},
		NubSuffix:            "Nub",
	}
}

// KeyedFunc reports whether a bone has at least one authored channel.
type KeyedFunc func(name string) bool

// Result is the outcome of one filter pass.
type Result struct {
	Bones   []string
	removed map[string]bool
}

// Removed reports whether name was visited and rejected.
func (r *Result) Removed(name string) bool {
	return r.removed[name]
}

// Filter visits bones parent-before-child and returns the ones to export, in
// visiting order. A bone whose parent has not been decided yet is pushed to
// the back of the queue. Removal never detaches descendants: a removed bone's
// children are still visited once it has been decided.
func Filter(pm *skeleton.ParentMap, keyed KeyedFunc, opts Options) *Result {
	res := &Result{removed: make(map[string]bool)}
	decided := make(map[string]bool, pm.Len())

	queue := pm.Names()
	stalled := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		parent, hasParent := pm.Parent(name)
		if hasParent && !decided[parent] {
			queue = append(queue, name)
			stalled++
			if stalled > len(queue) {
				// Only reachable with a parent outside the map.
				break
			}
			continue
		}
		stalled = 0
		decided[name] = true

		if shouldRemove(name, keyed, opts) {
			res.removed[name] = true
			continue
		}
		if !hasParent {
			if opts.RemoveOrphans && len(pm.Children(name)) == 0 {
				res.removed[name] = true
				continue
			}
		} else if opts.RemoveIK && IsIKOrNub(name, opts.IKMarkers, opts.NubMarkers, opts.NubSuffix) {
			res.removed[name] = true
			continue
		}
		res.Bones = append(res.Bones, name)
	}
	return res
}

func shouldRemove(name string, keyed KeyedFunc, opts Options) bool {
	if opts.RemoveSerialNumbered && HasSerialNumber(name) {
		return true
	}
	if opts.RemoveJapanese && IsJapanese(name) {
		return true
	}
	if opts.RemoveUnkeyed && (keyed == nil || !keyed(name)) {
		return true
	}
	return false
}
