package simulation

import (
	"fmt"
	"io"
	"strings"

	"github.com/tochemey/goakt/v3/log"
)

// NewLogger returns a logger writing to w at the given level name.
func NewLogger(level string, w io.Writer) (log.Logger, error) {
	var lvl log.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = log.DebugLevel
	case "", "info":
		lvl = log.InfoLevel
	case "warn", "warning":
		lvl = log.WarningLevel
	case "error":
		lvl = log.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return log.New(lvl, w), nil
}
