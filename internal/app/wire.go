//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package app

import (
	"context"
	"io"

	"github.com/google/wire"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

func Initialize(ctx context.Context, cfg *simulation.Config, w io.Writer) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
