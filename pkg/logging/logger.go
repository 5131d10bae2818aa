// Package logging provides the zerolog loggers marquee hands to its loader,
// submitter and server. Terminals get console output; everything else gets
// JSON.
//
//	log := logging.Default()
//	log.Info().Str("collection", "movies").Int("limit", 3).Msg("Loading catalog")
//
//	ctx := logging.WithCollection(context.Background(), "movies")
//	logging.Ctx(ctx).Warn().Msg("Collection is empty")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger follows LOG_LEVEL, DEBUG and LOG_FORMAT at startup.
var defaultLogger = FromEnv().Build()

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog/log's.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
