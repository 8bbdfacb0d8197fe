package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/wire"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/animation"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/registry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

// ProviderSet builds an App from a Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvidePlacements,
	ProvideScene,
	ProvideRegistry,
	ProvideSink,
	ProvideDriver,
	ProvideActorSystem,
	ProvideFlock,
	wire.Bind(new(simulation.Registry), new(*registry.Memory)),
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *simulation.Config, w io.Writer) (log.Logger, error) {
	return simulation.NewLogger(cfg.LogLevel, w)
}

func ProvidePlacements(cfg *simulation.Config) ([]simulation.NamedPlacement, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.Placements()
}

// ProvideScene stands in for the host scene: every configured agent exists in it.
func ProvideScene(placements []simulation.NamedPlacement) *registry.ObjectSet {
	scene := registry.NewObjectSet()
	for _, p := range placements {
		scene.Add(p.Ref)
	}
	return scene
}

func ProvideRegistry(scene *registry.ObjectSet) *registry.Memory {
	return registry.NewMemory(scene)
}

func ProvideSink(ctx context.Context, cfg *simulation.Config, logger log.Logger) (animation.Recorder, func(), error) {
	sink, err := animation.NewSink(ctx, cfg.Sink.Kind, cfg.Sink.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s sink: %w", cfg.Sink.Kind, err)
	}
	cleanup := func() {
		if err := animation.CloseIfSupported(sink); err != nil {
			logger.Errorf("closing %s sink: %v", cfg.Sink.Kind, err)
		}
	}
	return sink, cleanup, nil
}

// ProvideDriver creates the driver and registers every configured agent.
func ProvideDriver(cfg *simulation.Config, reg simulation.Registry, sink animation.Recorder, logger log.Logger, placements []simulation.NamedPlacement) (*simulation.Driver, error) {
	driver := simulation.NewDriver(reg, sink,
		simulation.WithLogger(logger),
		simulation.WithParallelism(cfg.Workers),
	)
	for _, p := range placements {
		if _, err := driver.Register(p.Ref, p.Placement); err != nil {
			return nil, err
		}
	}
	logger.Infof("registered %d agents", driver.State().Len())
	return driver, nil
}

func ProvideActorSystem(ctx context.Context, logger log.Logger) (actor.ActorSystem, func(), error) {
	system, err := actor.NewActorSystem("FlockAnimator", actor.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	cleanup := func() {
		if err := system.Stop(context.Background()); err != nil {
			logger.Errorf("stopping actor system: %v", err)
		}
	}
	return system, cleanup, nil
}

func ProvideFlock(ctx context.Context, system actor.ActorSystem, driver *simulation.Driver) (*actor.PID, error) {
	return system.Spawn(ctx, "flock", simulation.NewFlockActor(driver))
}
