package bmd

// Action is one animation clip of a model. All bones share its key count.
type Action struct {
	Keys int
	// LockPositions pins root bones to their first-key location.
	LockPositions bool
	// Positions is the per-key root trajectory stored with locked actions.
	Positions [][3]float32
}

// Bone holds one bone's animation. Positions and Rotations are indexed by
// action, then by key; rotations are Euler XYZ radians.
type Bone struct {
	Name      string
	Parent    int
	IsDummy   bool
	Positions [][][3]float32
	Rotations [][][3]float32
}

// Model is the animation-relevant part of a BMD file. Mesh data is skipped.
type Model struct {
	Name    string
	Version byte
	Meshes  int
	Actions []Action
	Bones   []Bone
}

// Keys is the key material for encrypted containers. A nil key makes the
// matching container version unreadable.
type Keys struct {
	XOR []byte
	LEA []byte
}
