package skeleton

import "anm-exporter/internal/mathutil"

// ComposeArmature chains per-bone local matrices into armature space using the
// native hierarchy: world(b) = world(parent(b)) × local(b).
func ComposeArmature(s *Skeleton, local func(name string) mathutil.Mat4) map[string]mathutil.Mat4 {
	worlds := make(map[string]mathutil.Mat4, s.Len())

	var resolve func(name string) mathutil.Mat4
	resolve = func(name string) mathutil.Mat4 {
		if w, ok := worlds[name]; ok {
			return w
		}
		b, _ := s.Bone(name)
		w := local(name)
		if b.Parent != "" {
			w = mathutil.Mat4Mul(resolve(b.Parent), w)
		}
		worlds[name] = w
		return w
	}

	for _, b := range s.bones {
		resolve(b.Name)
	}
	return worlds
}
