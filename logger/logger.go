package logger

import (
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func New(component string) zerolog.Logger {
	sublogger := log.With().
		Str("component", component).
		Logger()
	return sublogger
}

// Configure applies LOG_LEVEL once the settings are known. LOG_FORMAT is read
// in init because sub-loggers copy the writer when they are created.
func Configure(level string) {
	if level == "" {
		return
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

func writer(format string) io.Writer {
	if strings.EqualFold(format, "json") {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_, debug := os.LookupEnv("DEBUG")
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(writer(os.Getenv("LOG_FORMAT")))
}
