package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Development environments get the
// human-readable console writer; everything else logs JSON to stderr.
func Init(level, env string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if strings.EqualFold(env, "development") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// ParseLevel maps debug, warn and error; anything else is info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// AsynqLevel translates the service log level for the asynq server.
func AsynqLevel(level string) asynq.LogLevel {
	switch ParseLevel(level) {
	case zerolog.DebugLevel:
		return asynq.DebugLevel
	case zerolog.WarnLevel:
		return asynq.WarnLevel
	case zerolog.ErrorLevel:
		return asynq.ErrorLevel
	default:
		return asynq.InfoLevel
	}
}

// AsynqLogger routes asynq's internal logging through zerolog.
type AsynqLogger struct {
	logger zerolog.Logger
}

func NewAsynqLogger() *AsynqLogger {
	return &AsynqLogger{logger: log.With().Str("component", "asynq").Logger()}
}

func (l *AsynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *AsynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *AsynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *AsynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *AsynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
