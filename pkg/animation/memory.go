package animation

import (
	"sort"
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
)

// MemorySink keeps every keyframe in memory, one frame-ordered track per agent.
type MemorySink struct {
	mu     sync.RWMutex
	tracks map[behavior.AgentID][]Keyframe
	order  []behavior.AgentID
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{tracks: make(map[behavior.AgentID][]Keyframe)}
}

// RecordPose stores pose for id at frame, replacing an existing keyframe at the same frame.
func (m *MemorySink) RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[id]
	if !ok {
		m.order = append(m.order, id)
	}
	kf := Keyframe{Agent: id, Frame: frame, Pose: pose}
	i := sort.Search(len(track), func(i int) bool { return track[i].Frame >= frame })
	switch {
	case i < len(track) && track[i].Frame == frame:
		track[i] = kf
	default:
		track = append(track, Keyframe{})
		copy(track[i+1:], track[i:])
		track[i] = kf
	}
	m.tracks[id] = track
	return nil
}

// ClearRecorded drops every keyframe of id.
func (m *MemorySink) ClearRecorded(id behavior.AgentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracks[id]; !ok {
		return nil
	}
	delete(m.tracks, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Keyframes returns a copy of the track of id, ordered by frame.
func (m *MemorySink) Keyframes(id behavior.AgentID) []Keyframe {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Keyframe(nil), m.tracks[id]...)
}

// Agents returns the agents holding at least one keyframe, in order of first recording.
func (m *MemorySink) Agents() []behavior.AgentID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]behavior.AgentID(nil), m.order...)
}

// Len returns the total number of keyframes.
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, track := range m.tracks {
		n += len(track)
	}
	return n
}

// Fingerprint hashes every track in order of first recording.
func (m *MemorySink) Fingerprint() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tracks := make([][]Keyframe, len(m.order))
	for i, id := range m.order {
		tracks[i] = m.tracks[id]
	}
	return Fingerprint(tracks...)
}
