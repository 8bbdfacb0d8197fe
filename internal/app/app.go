package app

import (
	"context"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/animation"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/registry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

// App is a configured flock ready to run.
type App struct {
	Config *simulation.Config
	Logger log.Logger
	Scene  *registry.ObjectSet
	Sink   animation.Recorder
	Driver *simulation.Driver
	System actor.ActorSystem
	Flock  *actor.PID
}

// Run asks the flock actor for the configured frame range.
func (a *App) Run(ctx context.Context) (simulation.RunReport, error) {
	timeout := a.Config.RunTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := simulation.RequestRun(ctx, a.Flock, simulation.RunRequest{
		StartFrame: a.Config.StartFrame,
		EndFrame:   a.Config.EndFrame,
		Settings:   a.Config.Settings,
	}, timeout)
	if err != nil {
		return report, err
	}

	a.Logger.Infof("baked frames %d..%d: %d frames, %d agents", report.Start, report.End, report.Frames, report.Agents)
	for _, id := range report.Pruned {
		a.Logger.Warnf("agent %s was dropped, its object is gone", id)
	}
	if mem, ok := a.Sink.(*animation.MemorySink); ok {
		a.Logger.Infof("%d keyframes, fingerprint %016x", mem.Len(), mem.Fingerprint())
	}
	return report, nil
}
