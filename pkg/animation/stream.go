package animation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

const (
	opRecord = "record"
	opClear  = "clear"
)

// StreamSink appends every sink call to w as a length-delimited protobuf
// Struct. The resulting log can be replayed with Replay.
type StreamSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	buf    *bufio.Writer
}

// NewStreamSink writes the keyframe log to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// CreateStreamFile creates (or truncates) path and returns a StreamSink writing to it.
// Close must be called to flush the file.
func CreateStreamFile(path string) (*StreamSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyframe stream: %w", err)
	}
	buf := bufio.NewWriter(f)
	return &StreamSink{w: buf, buf: buf, closer: f}, nil
}

func (s *StreamSink) RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error {
	msg, err := structpb.NewStruct(map[string]any{
		"op":          opRecord,
		"agent":       string(id),
		"frame":       frame,
		"position":    vectorToList(pose.Position),
		"orientation": vectorToList(pose.Orientation),
	})
	if err != nil {
		return fmt.Errorf("failed to encode keyframe: %w", err)
	}
	return s.write(msg)
}

func (s *StreamSink) ClearRecorded(id behavior.AgentID) error {
	msg, err := structpb.NewStruct(map[string]any{
		"op":    opClear,
		"agent": string(id),
	})
	if err != nil {
		return fmt.Errorf("failed to encode clear: %w", err)
	}
	return s.write(msg)
}

func (s *StreamSink) write(msg *structpb.Struct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := protodelim.MarshalTo(s.w, msg); err != nil {
		return fmt.Errorf("failed to write keyframe stream: %w", err)
	}
	return nil
}

// Close flushes buffered records and closes the underlying file, if any.
func (s *StreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.buf != nil {
		err = s.buf.Flush()
	}
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

// Replay reads a keyframe log written by StreamSink and applies it to into, in order.
func Replay(r io.Reader, into Recorder) error {
	br := bufio.NewReader(r)
	for n := 0; ; n++ {
		msg := &structpb.Struct{}
		err := protodelim.UnmarshalFrom(br, msg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record %d: %w", n, err)
		}

		fields := msg.GetFields()
		id := behavior.AgentID(fields["agent"].GetStringValue())
		switch op := fields["op"].GetStringValue(); op {
		case opRecord:
			pose := behavior.Pose{
				Position:    listToVector(fields["position"]),
				Orientation: listToVector(fields["orientation"]),
			}
			frame := int(fields["frame"].GetNumberValue())
			if err := into.RecordPose(id, frame, pose); err != nil {
				return err
			}
		case opClear:
			if err := into.ClearRecorded(id); err != nil {
				return err
			}
		default:
			return fmt.Errorf("record %d: unknown op %q", n, op)
		}
	}
}

func vectorToList(v geometry.Vector3) []any {
	return []any{v.X, v.Y, v.Z}
}

func listToVector(v *structpb.Value) geometry.Vector3 {
	values := v.GetListValue().GetValues()
	if len(values) != 3 {
		return geometry.Zero
	}
	return geometry.Vector3{
		X: values[0].GetNumberValue(),
		Y: values[1].GetNumberValue(),
		Z: values[2].GetNumberValue(),
	}
}
