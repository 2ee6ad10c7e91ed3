package bmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"

	"anm-exporter/internal/crypto"

	"golang.org/x/text/encoding/korean"
)

const (
	nameLen   = 32
	maxMeshes = 100

	vertexSize   = 16
	normalSize   = 20
	texCoordSize = 8
	triangleSize = 64
)

// Parse reads a BMD file. Versions 10 (plain), 12 (XOR) and 15 (LEA-256 ECB)
// are supported.
func Parse(path string, keys Keys) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := Decode(raw, keys)
	if err != nil {
		return nil, fmt.Errorf("bmd: parse %s: %w", path, err)
	}
	return m, nil
}

// Decode parses a BMD container held in memory.
func Decode(raw []byte, keys Keys) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, fmt.Errorf("bmd: invalid header")
	}

	version := raw[3]
	var data []byte
	switch version {
	case 12, 15:
		if len(raw) < 8 {
			return nil, fmt.Errorf("bmd: truncated v%d header", version)
		}
		size := binary.LittleEndian.Uint32(raw[4:8])
		if 8+int(size) > len(raw) {
			return nil, fmt.Errorf("bmd: truncated v%d data", version)
		}
		payload := raw[8 : 8+size]
		var err error
		if version == 12 {
			data, err = crypto.DecryptXOR(payload, keys.XOR)
		} else {
			var c *crypto.LEA
			if c, err = crypto.NewLEA(keys.LEA); err == nil {
				data, err = c.Decrypt(payload)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("bmd: decrypt v%d: %w", version, err)
		}
	default:
		data = raw[4:]
	}

	r := &reader{data: data}
	m := r.parse()
	if r.short {
		return nil, fmt.Errorf("bmd: truncated body at offset %d", r.off)
	}
	if r.err != nil {
		return nil, r.err
	}
	m.Version = version
	return m, nil
}

type reader struct {
	data  []byte
	off   int
	short bool
	err   error
}

func (r *reader) take(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) { r.take(n) }

// readName reads a fixed-size EUC-KR name up to its NUL terminator.
func (r *reader) readName() string {
	b := r.take(nameLen)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := korean.EUCKR.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(bytes.TrimSpace(s))
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readVec3() [3]float32 {
	b := r.take(12)
	if b == nil {
		return [3]float32{}
	}
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func (r *reader) parse() *Model {
	m := &Model{Name: r.readName()}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		r.err = fmt.Errorf("bmd: invalid mesh count %d", meshCount)
		return m
	}
	m.Meshes = meshCount

	// Geometry is skipped; only the counts are needed to find the actions.
	for i := 0; i < meshCount && !r.short; i++ {
		nv := int(r.readI16())
		nn := int(r.readI16())
		ntc := int(r.readI16())
		nt := int(r.readI16())
		_ = r.readI16() // texture index
		r.skip(nv*vertexSize + nn*normalSize + ntc*texCoordSize + nt*triangleSize + nameLen)
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		keys := int(r.readI16())
		if keys < 0 {
			r.err = fmt.Errorf("bmd: action %d has %d keys", a, keys)
			return m
		}
		act := Action{Keys: keys, LockPositions: r.readByte() > 0}
		if act.LockPositions {
			act.Positions = make([][3]float32, keys)
			for k := range act.Positions {
				act.Positions[k] = r.readVec3()
			}
		}
		m.Actions[a] = act
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount && !r.short; b++ {
		if r.readByte() > 0 {
			m.Bones = append(m.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}
		bone := Bone{
			Name:      r.readName(),
			Parent:    int(r.readI16()),
			Positions: make([][][3]float32, actionCount),
			Rotations: make([][][3]float32, actionCount),
		}
		for a, act := range m.Actions {
			pos := make([][3]float32, act.Keys)
			for k := range pos {
				pos[k] = r.readVec3()
			}
			rot := make([][3]float32, act.Keys)
			for k := range rot {
				rot[k] = r.readVec3()
			}
			bone.Positions[a], bone.Rotations[a] = pos, rot
		}
		m.Bones = append(m.Bones, bone)
	}
	uniqueNames(m.Bones)
	return m
}

// uniqueNames gives every non-dummy bone a distinct name. Repeats get a
// ".001"-style suffix and unnamed bones are called "Bone<index>".
func uniqueNames(bones []Bone) {
	seen := make(map[string]bool, len(bones))
	for i := range bones {
		b := &bones[i]
		if b.IsDummy {
			continue
		}
		if b.Name == "" {
			b.Name = "Bone" + strconv.Itoa(i)
		}
		name := b.Name
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%03d", b.Name, n)
		}
		seen[name] = true
		b.Name = name
	}
}
