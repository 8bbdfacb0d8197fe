package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FlockActor owns a Driver and serves run requests one at a time, so a run
// always has the whole flock to itself.
type FlockActor struct {
	driver *Driver
	runs   int
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor wraps driver.
func NewFlockActor(driver *Driver) *FlockActor {
	return &FlockActor{driver: driver}
}

func (a *FlockActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("flock actor starting with %d agents", a.driver.State().Len())
	return nil
}

func (a *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Debugf("%s ready", ctx.Self().Name())

	case *structpb.Struct:
		switch command(msg) {
		case commandRun:
			a.handleRun(ctx, msg)
		case commandStatus:
			ctx.Response(&structpb.Struct{Fields: map[string]*structpb.Value{
				"agents": structpb.NewNumberValue(float64(a.driver.State().Len())),
				"runs":   structpb.NewNumberValue(float64(a.runs)),
			}})
		default:
			ctx.Unhandled()
		}

	default:
		ctx.Unhandled()
	}
}

func (a *FlockActor) handleRun(ctx *actor.ReceiveContext, msg *structpb.Struct) {
	req, err := RunRequestFromProto(msg)
	if err != nil {
		ctx.Response(reportToProto(RunReport{}, err))
		return
	}
	report, err := a.driver.Run(req.StartFrame, req.EndFrame, req.Settings)
	a.runs++
	if err != nil {
		ctx.Logger().Warnf("run %d..%d failed: %v", req.StartFrame, req.EndFrame, err)
	}
	ctx.Response(reportToProto(report, err))
}

func (a *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("flock actor stopped after %d runs", a.runs)
	return nil
}

// RequestRun asks the flock actor behind pid to run req and waits for the report.
func RequestRun(ctx context.Context, pid *actor.PID, req RunRequest, timeout time.Duration) (RunReport, error) {
	resp, err := actor.Ask(ctx, pid, req.ToProto(), timeout)
	if err != nil {
		return RunReport{}, fmt.Errorf("run request failed: %w", err)
	}
	p, ok := resp.(*structpb.Struct)
	if !ok {
		return RunReport{}, fmt.Errorf("unexpected run response %T", resp)
	}
	return reportFromProto(p)
}

// RequestStatus returns the number of agents and of completed runs of the flock actor.
func RequestStatus(ctx context.Context, pid *actor.PID, timeout time.Duration) (agents, runs int, err error) {
	resp, err := actor.Ask(ctx, pid, statusRequest(), timeout)
	if err != nil {
		return 0, 0, fmt.Errorf("status request failed: %w", err)
	}
	p, ok := resp.(*structpb.Struct)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected status response %T", resp)
	}
	f := p.GetFields()
	return int(f["agents"].GetNumberValue()), int(f["runs"].GetNumberValue()), nil
}
