package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lao-tseu-is-alive/go-flock-animator/internal/app"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/animation"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "flock config file (.json or .yaml), defaults apply when empty")
	start := flag.Int("start", 0, "first frame, overrides the config")
	end := flag.Int("end", 0, "last frame, overrides the config")
	replay := flag.String("replay", "", "summarize a keyframe stream file instead of running")
	flag.Parse()

	if *replay != "" {
		if err := summarize(*replay); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			cfg.StartFrame = *start
		case "end":
			cfg.EndFrame = *end
		}
	})

	ctx := context.Background()
	a, cleanup, err := app.Initialize(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting flock: %v\n", err)
		os.Exit(1)
	}

	_, err = a.Run(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(1)
	}
}

func summarize(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mem := animation.NewMemorySink()
	if err := animation.Replay(f, mem); err != nil {
		return err
	}
	fmt.Printf("%s: %d agents, %d keyframes, fingerprint %016x\n", path, len(mem.Agents()), mem.Len(), mem.Fingerprint())
	return nil
}
