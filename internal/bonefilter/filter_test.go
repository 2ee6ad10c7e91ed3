package bonefilter

import (
	"testing"

	"anm-exporter/internal/skeleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parentMap(t *testing.T, bones []skeleton.Bone) *skeleton.ParentMap {
	t.Helper()
	s, err := skeleton.New(bones)
	require.NoError(t, err)
	pm, _, err := skeleton.Resolve(s, nil, false)
	require.NoError(t, err)
	return pm
}

func mixedRig(t *testing.T) *skeleton.ParentMap {
	// Children listed before their parent exercise the re-enqueue path.
	return parentMap(t, []skeleton.Bone{
		{Name: "Spine", Parent: "Hip"},
		{Name: "Hip"},
		{Name: "Hand_IK_target", Parent: "Spine"},
		{Name: "Finger.001", Parent: "Spine"},
		{Name: "頭", Parent: "Spine"},
		{Name: "Lonely"},
		{Name: "FingerNub", Parent: "Spine"},
		{Name: "Toe_nub", Parent: "Spine"},
		{Name: "Head", Parent: "Spine"},
	})
}

func TestFilterDefaults(t *testing.T) {
	res := Filter(mixedRig(t), nil, DefaultOptions())

	assert.Equal(t, []string{"Hip", "Spine", "Head"}, res.Bones)
	for _, name := range []string{"Hand_IK_target", "Finger.001", "頭", "Lonely", "FingerNub", "Toe_nub"} {
		assert.True(t, res.Removed(name), name)
		assert.NotContains(t, res.Bones, name)
	}
	assert.False(t, res.Removed("Head"))
}

func TestFilterAllPoliciesOff(t *testing.T) {
	res := Filter(mixedRig(t), nil, Options{})
	assert.Len(t, res.Bones, 9)
	assert.Equal(t, "Hip", res.Bones[0])
}

func TestFilterParentBeforeChild(t *testing.T) {
	res := Filter(mixedRig(t), nil, Options{})
	pos := make(map[string]int)
	for i, b := range res.Bones {
		pos[b] = i
	}
	assert.Less(t, pos["Hip"], pos["Spine"])
	assert.Less(t, pos["Spine"], pos["Head"])
}

func TestFilterUnkeyed(t *testing.T) {
	pm := parentMap(t, []skeleton.Bone{
		{Name: "Hip"},
		{Name: "Spine", Parent: "Hip"},
		{Name: "Head", Parent: "Spine"},
	})
	keyed := map[string]bool{"Hip": true, "Head": true}

	res := Filter(pm, func(name string) bool { return keyed[name] }, Options{RemoveUnkeyed: true})
	assert.Equal(t, []string{"Hip", "Head"}, res.Bones)
	assert.True(t, res.Removed("Spine"))

	res = Filter(pm, nil, Options{RemoveUnkeyed: true})
	assert.Empty(t, res.Bones)
}

func TestFilterOrphansOnlyAppliesToRoots(t *testing.T) {
	pm := parentMap(t, []skeleton.Bone{
		{Name: "Root"},
		{Name: "Leaf", Parent: "Root"},
		{Name: "Prop"},
	})
	res := Filter(pm, nil, Options{RemoveOrphans: true})
	assert.Equal(t, []string{"Root", "Leaf"}, res.Bones)
}

func TestFilterIKOnlyAppliesToNonRoots(t *testing.T) {
	pm := parentMap(t, []skeleton.Bone{
		{Name: "Root_IK_"},
		{Name: "arm_ik_pole", Parent: "Root_IK_"},
	})
	res := Filter(pm, nil, Options{RemoveIK: true, IKMarkers: []string{"_ik_"}})
	assert.Equal(t, []string{"Root_IK_"}, res.Bones)
}

func TestFilterDeterministic(t *testing.T) {
	pm := mixedRig(t)
	first := Filter(pm, nil, DefaultOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Bones, Filter(pm, nil, DefaultOptions()).Bones)
	}
}

func TestHasSerialNumber(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Bone.001", true},
		{"Bone_012", true},
		{"Bone.0001", true},
		{"Bone０．００１", true},
		{"Bone.01", false},
		{"Bip01", false},
		{"Bip01 Spine1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasSerialNumber(tt.name), tt.name)
	}
}

func TestIsJapanese(t *testing.T) {
	for _, name := range []string{"腕", "ひじ", "カタ", "ｶﾀ", "Bone_右"} {
		assert.True(t, IsJapanese(name), name)
	}
	for _, name := range []string{"Arm", "한글", "Bip01 L Hand", ""} {
		assert.False(t, IsJapanese(name), name)
	}
}

func TestIsIKOrNub(t *testing.T) {
	ik, nub := []string{"_ik_"}, []string{"_nub"}
	assert.True(t, IsIKOrNub("Leg_IK_target", ik, nub, "Nub"))
	assert.True(t, IsIKOrNub("Toe_NUB", ik, nub, "Nub"))
	assert.True(t, IsIKOrNub("Bip01 HeadNub", ik, nub, "Nub"))
	assert.False(t, IsIKOrNub("Bip01 Headnub", ik, nub, "Nub"))
	assert.False(t, IsIKOrNub("Kick", ik, nub, "Nub"))
}
