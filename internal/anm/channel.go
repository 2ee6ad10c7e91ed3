package anm

import "fmt"

// ChannelID identifies the transform component a channel animates. The
// engine stores it as one byte.
type ChannelID uint8

const (
	RotationX ChannelID = 100 + iota
	RotationY
	RotationZ
	RotationW
	PositionX
	PositionY
	PositionZ
	ScaleX
	ScaleY
	ScaleZ
)

var channelNames = map[ChannelID]string{
	RotationX: "LocalRotationX",
	RotationY: "LocalRotationY",
	RotationZ: "LocalRotationZ",
	RotationW: "LocalRotationW",
	PositionX: "LocalPositionX",
	PositionY: "LocalPositionY",
	PositionZ: "LocalPositionZ",
	ScaleX:    "ExLocalScaleX",
	ScaleY:    "ExLocalScaleY",
	ScaleZ:    "ExLocalScaleZ",
}

func (id ChannelID) String() string {
	if n, ok := channelNames[id]; ok {
		return n
	}
	return fmt.Sprintf("Channel%d", uint8(id))
}

// RotationChannels are ordered x, y, z, w.
var RotationChannels = [4]ChannelID{RotationX, RotationY, RotationZ, RotationW}

// PositionChannels are ordered x, y, z.
var PositionChannels = [3]ChannelID{PositionX, PositionY, PositionZ}

// ScaleChannels are ordered x, y, z.
var ScaleChannels = [3]ChannelID{ScaleX, ScaleY, ScaleZ}
