// Package logger is the process-wide structured logger: console output
// in development, JSON everywhere else. Call sites pass alternating
// key/value pairs after the message.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	// logging must work before main calls Init
	configure("development")
}

// Init reconfigures the global logger for the environment. Safe to call
// more than once.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	configure(env)
}

func configure(env string) {
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.ToLower(env) == "development" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		out := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
		log = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, keysAndValues ...interface{}) {
	l := logger()
	withFields(l.Debug(), keysAndValues).Msg(msg)
}

func Info(msg string, keysAndValues ...interface{}) {
	l := logger()
	withFields(l.Info(), keysAndValues).Msg(msg)
}

func Warn(msg string, keysAndValues ...interface{}) {
	l := logger()
	withFields(l.Warn(), keysAndValues).Msg(msg)
}

func Error(msg string, keysAndValues ...interface{}) {
	l := logger()
	withFields(l.Error(), keysAndValues).Msg(msg)
}

// Fatal logs and exits the process.
func Fatal(msg string, keysAndValues ...interface{}) {
	l := logger()
	withFields(l.Fatal(), keysAndValues).Msg(msg)
}

func withFields(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	if len(kv)%2 != 0 {
		e = e.Interface("extra", kv[len(kv)-1])
	}
	return e
}
