package animation

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
)

// Keyframe is the pose of one agent at one frame.
type Keyframe struct {
	Agent behavior.AgentID
	Frame int
	Pose  behavior.Pose
}

// Recorder is the write side shared by every sink in this package.
type Recorder interface {
	RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error
	ClearRecorded(id behavior.AgentID) error
}

// Fingerprint hashes the frames and poses of tracks, in order.
// Agent ids are left out so two runs over freshly registered agents compare equal.
func Fingerprint(tracks ...[]Keyframe) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = d.Write(buf[:])
	}
	for _, track := range tracks {
		// Separator so that moving a keyframe between tracks changes the hash.
		put(uint64(len(track)))
		for _, kf := range track {
			put(uint64(int64(kf.Frame)))
			p, o := kf.Pose.Position, kf.Pose.Orientation
			for _, f := range [...]float64{p.X, p.Y, p.Z, o.X, o.Y, o.Z} {
				put(math.Float64bits(f))
			}
		}
	}
	return d.Sum64()
}
