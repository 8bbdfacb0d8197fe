package simulation

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
)

const (
	commandRun    = "run"
	commandStatus = "status"
)

// Error codes carried by run responses.
const (
	codeInvalidRange    = "invalid_range"
	codeEmptyFlock      = "empty_flock"
	codeInvalidSettings = "invalid_settings"
	codeSinkWrite       = "sink_write"
	codeInternal        = "internal"
)

// RunRequest asks the flock actor for one run.
type RunRequest struct {
	StartFrame int
	EndFrame   int
	Settings   behavior.Settings
}

// ToProto converts the request into the message sent to the actor.
func (r RunRequest) ToProto() *structpb.Struct {
	s := r.Settings
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"command":    structpb.NewStringValue(commandRun),
		"startFrame": structpb.NewNumberValue(float64(r.StartFrame)),
		"endFrame":   structpb.NewNumberValue(float64(r.EndFrame)),
		"settings": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"maxSpeed":           structpb.NewNumberValue(s.MaxSpeed),
			"maxForce":           structpb.NewNumberValue(s.MaxForce),
			"visionRadius":       structpb.NewNumberValue(s.VisionRadius),
			"cohesionStrength":   structpb.NewNumberValue(s.CohesionStrength),
			"alignmentStrength":  structpb.NewNumberValue(s.AlignmentStrength),
			"separationStrength": structpb.NewNumberValue(s.SeparationStrength),
		}}),
	}}
}

// RunRequestFromProto reads a request built by RunRequest.ToProto.
func RunRequestFromProto(p *structpb.Struct) (RunRequest, error) {
	if command(p) != commandRun {
		return RunRequest{}, fmt.Errorf("not a run request: %q", command(p))
	}
	f := p.GetFields()
	s := f["settings"].GetStructValue().GetFields()
	if s == nil {
		return RunRequest{}, errors.New("run request without settings")
	}
	return RunRequest{
		StartFrame: int(f["startFrame"].GetNumberValue()),
		EndFrame:   int(f["endFrame"].GetNumberValue()),
		Settings: behavior.Settings{
			MaxSpeed:           s["maxSpeed"].GetNumberValue(),
			MaxForce:           s["maxForce"].GetNumberValue(),
			VisionRadius:       s["visionRadius"].GetNumberValue(),
			CohesionStrength:   s["cohesionStrength"].GetNumberValue(),
			AlignmentStrength:  s["alignmentStrength"].GetNumberValue(),
			SeparationStrength: s["separationStrength"].GetNumberValue(),
		},
	}, nil
}

func statusRequest() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"command": structpb.NewStringValue(commandStatus),
	}}
}

func command(p *structpb.Struct) string {
	return p.GetFields()["command"].GetStringValue()
}

// reportToProto encodes the outcome of a run, error included.
func reportToProto(r RunReport, runErr error) *structpb.Struct {
	pruned := make([]*structpb.Value, len(r.Pruned))
	for i, id := range r.Pruned {
		pruned[i] = structpb.NewStringValue(string(id))
	}
	fields := map[string]*structpb.Value{
		"start":  structpb.NewNumberValue(float64(r.Start)),
		"end":    structpb.NewNumberValue(float64(r.End)),
		"frames": structpb.NewNumberValue(float64(r.Frames)),
		"agents": structpb.NewNumberValue(float64(r.Agents)),
		"pruned": structpb.NewListValue(&structpb.ListValue{Values: pruned}),
	}
	if runErr != nil {
		errFields := map[string]*structpb.Value{
			"code":    structpb.NewStringValue(errorCode(runErr)),
			"message": structpb.NewStringValue(runErr.Error()),
		}
		var sinkErr *SinkError
		if errors.As(runErr, &sinkErr) {
			errFields["op"] = structpb.NewStringValue(sinkErr.Op)
			errFields["agent"] = structpb.NewStringValue(string(sinkErr.Agent))
			errFields["frame"] = structpb.NewNumberValue(float64(sinkErr.Frame))
			errFields["cause"] = structpb.NewStringValue(sinkErr.Err.Error())
		}
		fields["error"] = structpb.NewStructValue(&structpb.Struct{Fields: errFields})
	}
	return &structpb.Struct{Fields: fields}
}

// reportFromProto decodes a response built by reportToProto.
func reportFromProto(p *structpb.Struct) (RunReport, error) {
	f := p.GetFields()
	r := RunReport{
		Start:  int(f["start"].GetNumberValue()),
		End:    int(f["end"].GetNumberValue()),
		Frames: int(f["frames"].GetNumberValue()),
		Agents: int(f["agents"].GetNumberValue()),
	}
	for _, v := range f["pruned"].GetListValue().GetValues() {
		r.Pruned = append(r.Pruned, behavior.AgentID(v.GetStringValue()))
	}

	e := f["error"].GetStructValue().GetFields()
	if e == nil {
		return r, nil
	}
	code, msg := e["code"].GetStringValue(), e["message"].GetStringValue()
	if code == codeSinkWrite {
		return r, &SinkError{
			Op:    e["op"].GetStringValue(),
			Agent: behavior.AgentID(e["agent"].GetStringValue()),
			Frame: int(e["frame"].GetNumberValue()),
			Err:   errors.New(e["cause"].GetStringValue()),
		}
	}
	return r, &RemoteError{Code: code, Message: msg}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRange):
		return codeInvalidRange
	case errors.Is(err, ErrEmptyFlock):
		return codeEmptyFlock
	case errors.Is(err, behavior.ErrInvalidSettings):
		return codeInvalidSettings
	case errors.Is(err, ErrSinkWrite):
		return codeSinkWrite
	default:
		return codeInternal
	}
}

// RemoteError is a run failure reported by the flock actor.
// errors.Is matches it against the sentinel its code stands for.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case codeInvalidRange:
		return target == ErrInvalidRange
	case codeEmptyFlock:
		return target == ErrEmptyFlock
	case codeInvalidSettings:
		return target == behavior.ErrInvalidSettings
	default:
		return false
	}
}
