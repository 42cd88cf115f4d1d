// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jschibelli/accountguard/config"
)

// .
var (
	//nolint:gochecknoglobals // We need only one log for the app, hence it is global.
	logger zerolog.Logger
)

//nolint:gochecknoinits // Log is global, so its initialization can be done in init.
func init() {
	var appCfg cfg
	config.MustLoadFromKey("logger", &appCfg)
	if appCfg.Level == "" {
		appCfg.Level = zerolog.LevelInfoValue
	}
	zerolog.DisableSampling(true)
	zerolog.InterfaceMarshalFunc = json.Marshal
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	lvl, err := zerolog.ParseLevel(appCfg.Level)
	if err != nil {
		panic(errors.Wrapf(err, "invalid logger level %q", appCfg.Level))
	}
	var logWriter io.Writer = os.Stderr
	if !strings.EqualFold(appCfg.Encoder, "json") {
		logWriter = &zerolog.ConsoleWriter{Out: logWriter, TimeFormat: time.RFC3339Nano}
	}
	logger = zerolog.New(logWriter).With().Timestamp().Logger().Level(lvl)
}

func Debug(msg string, fields ...any) {
	event := logger.Debug()
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

func Info(msg string, fields ...any) {
	event := logger.Info()
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

func Warn(msg string, fields ...any) {
	event := logger.Warn()
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

// Error is a noop if err is nil.
func Error(err error, fields ...any) {
	if err == nil {
		return
	}
	event := logger.Err(err)
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Send()
}

// Panic logs err and panics; it is a noop if err is nil.
func Panic(err error, fields ...any) {
	if err == nil {
		return
	}
	event := logger.Panic()
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Err(err).Send()
}
