package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-eq/equalizer"
	"github.com/RyanBlaney/sonido-eq/logging"
	"github.com/RyanBlaney/sonido-eq/transcode"
)

const VERSION = "0.1.0"

// gainLimit matches the slider range of the original web front end
const gainLimit = 5.0

type options struct {
	inputPath  string
	outputPath string
	configPath string
	format     string
	bass       float64
	mid        float64
	treble     float64
	logLevel   string
	debugMode  bool
	noColor    bool
	version    bool
	explicit   map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("sonido-eq", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.inputPath, "i", "", "Input WAV file (required)")
	fs.StringVar(&opts.outputPath, "o", "", "Output WAV file (defaults to <input>_equalized.wav)")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.format, "format", "table", "Report format: table or json")
	fs.Float64Var(&opts.bass, "bass", 1.0, "Bass gain (< 300 Hz), 0 to 5")
	fs.Float64Var(&opts.mid, "mid", 1.0, "Mid gain (300 Hz to 3 kHz), 0 to 5")
	fs.Float64Var(&opts.treble, "treble", 1.0, "Treble gain (3 kHz to the treble ceiling), 0 to 5")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&opts.debugMode, "d", false, "Debug mode (same as -log-level debug)")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored log output")
	fs.BoolVar(&opts.version, "version", false, "Display version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.explicit[f.Name] = true })

	if opts.version {
		return opts, nil
	}
	if opts.inputPath == "" {
		return nil, errors.New("input path is required, use -i")
	}
	if opts.format != "table" && opts.format != "json" {
		return nil, fmt.Errorf("unknown report format %q", opts.format)
	}
	if opts.outputPath == "" {
		opts.outputPath = defaultOutputPath(opts.inputPath)
	}
	return opts, nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".wav"
	}
	return base + "_equalized" + ext
}

// resolveGains starts from the config gains and applies any gain flags given
func resolveGains(opts *options, cfg *equalizer.Config) (equalizer.GainSettings, bool) {
	gains := cfg.Gains
	if opts.explicit["bass"] {
		gains.Bass = opts.bass
	}
	if opts.explicit["mid"] {
		gains.Mid = opts.mid
	}
	if opts.explicit["treble"] {
		gains.Treble = opts.treble
	}
	return gains.Clamp(gainLimit)
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "sonido-eq version %s\n", VERSION)
		return nil
	}

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.debugMode {
		level = logging.DebugLevel
	}
	// the JSON report owns stdout
	logOut := stdout
	if opts.format == "json" {
		logOut = stderr
	}
	logging.SetGlobalLogger(logging.NewLogger(logOut, stderr, level))
	if !opts.noColor && opts.format != "json" && logging.IsTerminal(stderr) {
		logging.EnableColors()
	} else {
		logging.DisableColors()
	}

	cfg := equalizer.DefaultConfig()
	if opts.configPath != "" {
		cfg, err = equalizer.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
	}

	logger := logging.WithFields(logging.Fields{
		"component": "cli",
		"input":     opts.inputPath,
	})

	gains, clamped := resolveGains(opts, cfg)
	if clamped {
		logger.Warn("Gains clamped to slider range", logging.Fields{
			"limit":  gainLimit,
			"bass":   gains.Bass,
			"mid":    gains.Mid,
			"treble": gains.Treble,
		})
	}

	audio, err := transcode.NewDecoder(nil).DecodeFile(opts.inputPath)
	if err != nil {
		return err
	}

	proc, err := equalizer.NewProcessor(cfg)
	if err != nil {
		return err
	}
	result, err := proc.Process(audio, gains)
	if err != nil {
		return err
	}

	enc, err := transcode.NewEncoder(&transcode.EncoderConfig{BitDepth: cfg.OutputBitDepth})
	if err != nil {
		return err
	}
	stats, err := enc.EncodeFile(opts.outputPath, result.Equalized)
	if err != nil {
		return err
	}

	logger.Info("Wrote equalized audio", logging.Fields{
		"output":  opts.outputPath,
		"frames":  stats.Frames,
		"clipped": stats.Clipped,
	})

	if opts.format == "json" {
		return writeJSONReport(stdout, result, stats)
	}
	return writeTableReport(stdout, result, stats)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logging.Error(err, "sonido-eq failed")
		os.Exit(1)
	}
}
