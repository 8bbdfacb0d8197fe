package animation

import (
	"context"
	"fmt"
)

// NewSink builds the sink named by kind: "memory", "stream" or "sqlite".
// path is the output file of the last two.
func NewSink(ctx context.Context, kind, path string) (Recorder, error) {
	switch kind {
	case "", "memory":
		return NewMemorySink(), nil
	case "stream":
		sink, err := CreateStreamFile(path)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "sqlite":
		sink, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unsupported sink backend: %s", kind)
	}
}

// CloseIfSupported closes sink when it holds a resource.
func CloseIfSupported(sink Recorder) error {
	closer, ok := sink.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
