package main

import (
	"os"

	"github.com/woozymasta/mapgeo/internal/config"
	"github.com/woozymasta/mapgeo/internal/geo"
	"github.com/woozymasta/mapgeo/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"      env:"CONFIG_FILE"   description:"Path to configuration file"`
	Format      string  `short:"f" long:"format"      env:"OUTPUT_FORMAT" description:"Output format" choice:"json" choice:"yaml" choice:"geojson"`
	Center      string  `long:"center"                env:"VIEW_CENTER"   description:"Viewport center as lat,lng"`
	Zoom        *int    `short:"z" long:"zoom"        env:"VIEW_ZOOM"     description:"Viewport zoom level"`
	Width       int     `long:"width"                 env:"VIEW_WIDTH"    description:"Viewport width in pixels"`
	Height      int     `long:"height"                env:"VIEW_HEIGHT"   description:"Viewport height in pixels"`
	Tolerance   float64 `long:"tolerance"             env:"TOLERANCE"     description:"Largest acos rounding overshoot clamped by intersection"`
	Concurrency int     `short:"p" long:"concurrency" env:"CONCURRENCY"   description:"Batch workers"`
}

var opts Options

func main() {
	var (
		active flags.Commander
		args   []string
	)

	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, a []string) error {
		active, args = cmd, a
		return nil
	}
	addCommands(parser)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	state.cfg = cfg

	log.Debug().
		Str("command", parser.Active.Name).
		Str("format", cfg.Format).
		Msg("Running command")

	if err := active.Execute(args); err != nil {
		log.Fatal().Err(err).Str("command", parser.Active.Name).Msg("Command failed")
	}
}

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.Tolerance > 0 {
		cfg.Tolerance = opts.Tolerance
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}

	if opts.Center != "" {
		center, err := geo.ParseCoordinate(opts.Center)
		if err != nil {
			return nil, err
		}
		cfg.Viewport.Center = center
		cfg.Viewport.Bounds = nil
	}
	if opts.Zoom != nil {
		cfg.Viewport.Zoom = opts.Zoom
	}
	if opts.Width > 0 {
		cfg.Viewport.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Viewport.Height = opts.Height
	}

	return cfg, nil
}
