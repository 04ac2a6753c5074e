// Package config holds bubcat's run configuration: the handful of
// settings a decode needs, read from command-line flags the way
// revid's config.Config is read from cloud variables, but scoped down
// to a single-purpose CLI rather than a long-running netsender client.
package config

import (
	"flag"

	"github.com/ausocean/utils/logging"
)

// Logging defaults, grounded on the teacher's cmd binaries (speaker,
// audio-netsender), which all log to a lumberjack-rotated file rather
// than stdout.
const (
	DefaultLogPath      = "/var/log/bubcat/bubcat.log"
	DefaultLogMaxSize   = 100 // MB
	DefaultLogMaxBackup = 10
	DefaultLogMaxAge    = 28 // days
	DefaultLogLevel     = logging.Info
)

// Config is bubcat's complete run configuration.
type Config struct {
	// InputPath is the .bub stream to decode.
	InputPath string
	// OutputPath is the .wav file to write.
	OutputPath string
	// SpeakersPath points at a space.WriteSpeakers-format speaker
	// layout file.
	SpeakersPath string
	// BitDepth is the output WAV's bit depth: 16, 24, or 32.
	BitDepth int

	LogPath      string
	LogMaxSize   int
	LogMaxBackup int
	LogMaxAge    int
	LogLevel     int8
}

// FromFlags parses os.Args-style flags into a Config, applying the
// same defaults revid's config layer falls back to when a variable is
// unset.
func FromFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("bubcat", flag.ContinueOnError)

	cfg := Config{
		BitDepth:     24,
		LogPath:      DefaultLogPath,
		LogMaxSize:   DefaultLogMaxSize,
		LogMaxBackup: DefaultLogMaxBackup,
		LogMaxAge:    DefaultLogMaxAge,
		LogLevel:     int8(DefaultLogLevel),
	}

	fs.StringVar(&cfg.InputPath, "in", "", "path to the .bub stream to decode")
	fs.StringVar(&cfg.OutputPath, "out", "", "path to the .wav file to write")
	fs.StringVar(&cfg.SpeakersPath, "speakers", "", "path to the speaker layout file")
	fs.IntVar(&cfg.BitDepth, "bit-depth", cfg.BitDepth, "output WAV bit depth: 16, 24, or 32")
	fs.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "log file path")
	logLevel := fs.Int("log-level", int(cfg.LogLevel), "log level: 0=Debug 1=Info 2=Warning 3=Error 4=Fatal")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = int8(*logLevel)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.InputPath == "" {
		return errMissingFlag("in")
	}
	if c.OutputPath == "" {
		return errMissingFlag("out")
	}
	if c.SpeakersPath == "" {
		return errMissingFlag("speakers")
	}
	if c.BitDepth != 16 && c.BitDepth != 24 && c.BitDepth != 32 {
		return errInvalidBitDepth(c.BitDepth)
	}
	return nil
}
