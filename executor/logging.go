package executor

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used across this package and the
// server package built on top of it.
type Logger = *logiface.Logger[*stumpy.Event]

// defaultLogger is used by New and NewReactor when WithLogger is not
// supplied. It writes newline-delimited JSON to stderr.
var defaultLogger Logger = stumpy.L.New(
	stumpy.L.WithStumpy(),
	stumpy.L.WithLevel(logiface.LevelInformational),
)
