package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/woozymasta/mapgeo/internal/batch"
	"github.com/woozymasta/mapgeo/internal/config"
	"github.com/woozymasta/mapgeo/internal/geo"
	"github.com/woozymasta/mapgeo/internal/projection"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

// state is filled by main before the active command runs.
var state struct {
	cfg *config.Config
}

// coordFlag parses a "lat,lng" command line value.
type coordFlag geo.Coordinate

// UnmarshalFlag implements flags.Unmarshaler.
func (c *coordFlag) UnmarshalFlag(value string) error {
	parsed, err := geo.ParseCoordinate(value)
	if err != nil {
		return err
	}
	*c = coordFlag(parsed)
	return nil
}

func (c coordFlag) coordinate() geo.Coordinate { return geo.Coordinate(c) }

func addCommands(parser *flags.Parser) {
	commands := []struct {
		data  interface{}
		name  string
		short string
	}{
		{&BearingCommand{}, "bearing", "Initial great-circle bearing between two points"},
		{&DestinationCommand{}, "destination", "Point reached from an origin along a bearing"},
		{&MidpointCommand{}, "midpoint", "Great-circle midpoint of two points"},
		{&IntersectionCommand{}, "intersection", "Crossing point of two paths given by point and bearing"},
		{&DistanceCommand{}, "distance", "Great-circle distance between two points"},
		{&ScreenCommand{}, "screen", "Pixel of a coordinate within the viewport"},
		{&GeoCommand{}, "geo", "Coordinate shown at a viewport pixel"},
		{&ScaleCommand{}, "scale", "Map scale in meters per pixel"},
		{&TileCommand{}, "tile", "Slippy-map tile holding a coordinate"},
		{&BatchCommand{}, "batch", "Evaluate a YAML/JSON list of operations"},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("Failed to register command")
		}
	}
}

func viewport() (projection.StaticViewport, error) {
	return state.cfg.Viewport.Build()
}

type BearingCommand struct {
	From coordFlag `long:"from" required:"true" description:"Start point as lat,lng"`
	To   coordFlag `long:"to"   required:"true" description:"End point as lat,lng"`
}

func (c *BearingCommand) Execute([]string) error {
	from, to := c.From.coordinate(), c.To.coordinate()
	b := geo.BearingTo(from, to)

	fc := geo.NewFeatureCollection(geo.LineFeature([]geo.Coordinate{from, to}, map[string]interface{}{"bearing": b}))
	return emit(state.cfg.Format, map[string]interface{}{"bearing": b}, &fc)
}

type DestinationCommand struct {
	From     coordFlag `long:"from"     required:"true" description:"Origin as lat,lng"`
	Bearing  float64   `long:"bearing"  required:"true" description:"Initial bearing in degrees"`
	Distance float64   `long:"distance" required:"true" description:"Distance in kilometers"`
}

func (c *DestinationCommand) Execute([]string) error {
	origin := c.From.coordinate()

	dest, err := geo.DestinationPoint(origin, c.Bearing, c.Distance)
	if err != nil {
		return err
	}

	fc := geo.NewFeatureCollection(
		geo.PointFeature(dest, map[string]interface{}{"bearing": c.Bearing, "distance_km": c.Distance}),
		geo.LineFeature([]geo.Coordinate{origin, dest}, nil),
	)
	return emit(state.cfg.Format, dest, &fc)
}

type MidpointCommand struct {
	From coordFlag `long:"from" required:"true" description:"First point as lat,lng"`
	To   coordFlag `long:"to"   required:"true" description:"Second point as lat,lng"`
}

func (c *MidpointCommand) Execute([]string) error {
	mid := geo.MidpointTo(c.From.coordinate(), c.To.coordinate())

	fc := geo.NewFeatureCollection(geo.PointFeature(mid, map[string]interface{}{"name": "midpoint"}))
	return emit(state.cfg.Format, mid, &fc)
}

type IntersectionCommand struct {
	From     coordFlag `long:"from"     required:"true" description:"First path start as lat,lng"`
	Bearing  float64   `long:"bearing"  required:"true" description:"First path bearing in degrees"`
	To       coordFlag `long:"to"       required:"true" description:"Second path start as lat,lng"`
	Bearing2 float64   `long:"bearing2" required:"true" description:"Second path bearing in degrees"`
}

func (c *IntersectionCommand) Execute([]string) error {
	p1, p2 := c.From.coordinate(), c.To.coordinate()

	point, ok, err := geo.IntersectionWithTolerance(p1, c.Bearing, p2, c.Bearing2, state.cfg.Tolerance)
	if err != nil {
		return err
	}
	if !ok {
		log.Info().
			Str("from", p1.String()).
			Str("to", p2.String()).
			Msg("Paths have no unique intersection")
		empty := geo.NewFeatureCollection()
		return emit(state.cfg.Format, map[string]interface{}{"intersection": nil, "no_result": true}, &empty)
	}

	fc := geo.NewFeatureCollection(geo.PointFeature(point, map[string]interface{}{"name": "intersection"}))
	return emit(state.cfg.Format, point, &fc)
}

type DistanceCommand struct {
	From coordFlag `long:"from" required:"true" description:"First point as lat,lng"`
	To   coordFlag `long:"to"   required:"true" description:"Second point as lat,lng"`
}

func (c *DistanceCommand) Execute([]string) error {
	from, to := c.From.coordinate(), c.To.coordinate()
	d := geo.DistanceTo(from, to)

	fc := geo.NewFeatureCollection(geo.LineFeature([]geo.Coordinate{from, to}, map[string]interface{}{"distance_km": d}))
	return emit(state.cfg.Format, map[string]interface{}{"distance_km": d}, &fc)
}

type ScreenCommand struct {
	At coordFlag `long:"at" required:"true" description:"Coordinate as lat,lng"`
}

func (c *ScreenCommand) Execute([]string) error {
	v, err := viewport()
	if err != nil {
		return err
	}

	return emit(state.cfg.Format, projection.ToScreenPoint(v, c.At.coordinate()), nil)
}

type GeoCommand struct {
	X int `short:"x" required:"true" description:"Pixel column from the left edge"`
	Y int `short:"y" required:"true" description:"Pixel row from the top edge"`
}

func (c *GeoCommand) Execute([]string) error {
	v, err := viewport()
	if err != nil {
		return err
	}

	point := projection.ToGeoCoordinate(v, projection.PixelPoint{X: c.X, Y: c.Y})
	fc := geo.NewFeatureCollection(geo.PointFeature(point, map[string]interface{}{"x": c.X, "y": c.Y}))
	return emit(state.cfg.Format, point, &fc)
}

type ScaleCommand struct {
	Zoom  *int     `long:"at-zoom" description:"Compute the scale for this zoom instead of the viewport's"`
	Lat   *float64 `long:"lat"     description:"Compute the scale for this latitude instead of the viewport center"`
	Fixed *int     `long:"fixed"   description:"Round to this many decimal places"`
}

func (c *ScaleCommand) Execute([]string) error {
	opt := projection.ScaleOptions{Zoom: c.Zoom, Lat: c.Lat, Fixed: c.Fixed}.Merge(state.cfg.Scale)

	var v projection.Viewport
	if opt.Zoom == nil || opt.Lat == nil {
		sv, err := viewport()
		if err != nil {
			return err
		}
		v = sv
	}

	return emit(state.cfg.Format, map[string]interface{}{"meters_per_pixel": projection.EstimateScale(v, opt)}, nil)
}

type TileCommand struct {
	At       coordFlag `long:"at"       required:"true" description:"Coordinate as lat,lng"`
	Zoom     int       `long:"at-zoom"  required:"true" description:"Tile zoom level"`
	Template string    `long:"template" description:"Path template with {z}, {x}, {y} or {tms_y}" default:"{z}/{x}/{y}"`
}

func (c *TileCommand) Execute([]string) error {
	tile, err := projection.TileFor(projection.WebMercator{}, c.At.coordinate(), c.Zoom)
	if err != nil {
		return err
	}

	return emit(state.cfg.Format, map[string]interface{}{
		"tile":  tile,
		"tms_y": tile.TMSY(),
		"path":  tile.Expand(c.Template),
	}, nil)
}

type BatchCommand struct {
	Jobs string `short:"j" long:"jobs" required:"true" description:"Path to the job list (YAML or JSON)"`
}

func (c *BatchCommand) Execute([]string) error {
	jobs, err := batch.LoadJobs(c.Jobs)
	if err != nil {
		return err
	}

	env := batch.Env{Scale: state.cfg.Scale, Tolerance: state.cfg.Tolerance}
	if v, err := viewport(); err != nil {
		log.Warn().Err(err).Msg("Viewport unavailable, screen operations will fail")
	} else {
		env.Viewport = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("file", c.Jobs).
		Int("jobs", len(jobs)).
		Int("concurrency", state.cfg.Concurrency).
		Msg("Starting batch")

	results := batch.Run(ctx, jobs, state.cfg.Concurrency, env)

	fc := batch.Features(results)
	return emit(state.cfg.Format, results, &fc)
}
