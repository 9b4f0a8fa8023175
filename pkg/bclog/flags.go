package bclog

import (
	"flag"
	"fmt"
)

// Flags holds the logging-related command-line flags every neolink
// sub-command registers, mirroring the teacher's logger.Flags/RegisterFlags
// split between flag wiring and Config construction.
type Flags struct {
	LogLevel  string
	LogFormat string
	LogFile   string
}

// RegisterFlags registers logging flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "log-format", "console", "log output format: console, json")
	fs.StringVar(&f.LogFile, "log-file", "", "log output file path (default: stderr)")
	return f
}

// ToConfig converts parsed flags into a Config.
func (f *Flags) ToConfig() (Config, error) {
	cfg := NewConfig()

	level, err := ParseLevel(f.LogLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.Level = level

	switch Format(f.LogFormat) {
	case FormatJSON:
		cfg.Format = FormatJSON
	case FormatConsole:
		cfg.Format = FormatConsole
	default:
		return Config{}, fmt.Errorf("invalid log format: %s (must be console or json)", f.LogFormat)
	}

	cfg.OutputPath = f.LogFile
	return cfg, nil
}

// String renders the active flag values for a startup log line.
func (f *Flags) String() string {
	out := fmt.Sprintf("level=%s format=%s", f.LogLevel, f.LogFormat)
	if f.LogFile != "" {
		out += " output=" + f.LogFile
	} else {
		out += " output=stderr"
	}
	return out
}
