// Package batch evaluates lists of geodesy and projection operations on a
// pool of workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/woozymasta/mapgeo/internal/geo"
	"github.com/woozymasta/mapgeo/internal/projection"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Operation names accepted in Job.Op.
const (
	OpBearing      = "bearing"
	OpDestination  = "destination"
	OpMidpoint     = "midpoint"
	OpIntersection = "intersection"
	OpDistance     = "distance"
	OpScreen       = "screen"
	OpGeo          = "geo"
	OpScale        = "scale"
	OpTile         = "tile"
)

// ErrNoViewport is returned for screen operations when Env has no viewport.
var ErrNoViewport = errors.New("operation requires a viewport")

// Job is a single operation with its arguments. Which fields are read
// depends on Op:
//
//	bearing, midpoint, distance: From, To
//	destination:                 From, Bearing, Distance (km)
//	intersection:                From, Bearing, To, Bearing2
//	screen:                      From
//	geo:                         Pixel
//	scale:                       Scale
//	tile:                        From, Zoom
type Job struct {
	From     *geo.Coordinate         `yaml:"from,omitempty" json:"from,omitempty"`
	To       *geo.Coordinate         `yaml:"to,omitempty" json:"to,omitempty"`
	Pixel    *projection.PixelPoint  `yaml:"pixel,omitempty" json:"pixel,omitempty"`
	Scale    projection.ScaleOptions `yaml:"scale,omitempty" json:"scale,omitempty"`
	Op       string                  `yaml:"op" json:"op"`
	Bearing  float64                 `yaml:"bearing,omitempty" json:"bearing,omitempty"`
	Bearing2 float64                 `yaml:"bearing2,omitempty" json:"bearing2,omitempty"`
	Distance float64                 `yaml:"distance,omitempty" json:"distance,omitempty"`
	Zoom     int                     `yaml:"zoom,omitempty" json:"zoom,omitempty"`
}

// Result is the outcome of one Job. NoResult marks an intersection without
// a unique answer; Error holds the failure message, if any.
type Result struct {
	Value    interface{} `yaml:"value,omitempty" json:"value,omitempty"`
	Op       string      `yaml:"op" json:"op"`
	Error    string      `yaml:"error,omitempty" json:"error,omitempty"`
	Index    int         `yaml:"index" json:"index"`
	NoResult bool        `yaml:"no_result,omitempty" json:"no_result,omitempty"`
}

// Env is the read-only state shared by all jobs of a run.
type Env struct {
	Viewport  projection.Viewport
	Scale     projection.ScaleOptions
	Tolerance float64
}

type indexedJob struct {
	Job   Job
	Index int
}

// LoadJobs reads a YAML (or JSON) list of jobs from path.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return jobs, nil
}

// Run evaluates jobs with the given number of workers and returns one Result
// per job, in job order. Jobs not evaluated before ctx is done carry the
// context error.
func Run(ctx context.Context, jobs []Job, concurrency int, env Env) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	queue := make(chan indexedJob, len(jobs))
	results := make(chan Result, len(jobs))

	go func() {
		defer close(queue)
		for i, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- indexedJob{Job: j, Index: i}:
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if err := ctx.Err(); err != nil {
					results <- Result{Index: j.Index, Op: j.Job.Op, Error: err.Error()}
					continue
				}
				results <- evaluate(j, env)
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]Result, len(jobs))
	done := make([]bool, len(jobs))
	failed := 0
	for res := range results {
		out[res.Index] = res
		done[res.Index] = true
		if res.Error != "" {
			failed++
		}
	}

	for i := range out {
		if !done[i] {
			out[i] = Result{Index: i, Op: jobs[i].Op, Error: ctx.Err().Error()}
			failed++
		}
	}

	log.Info().
		Int("jobs", len(jobs)).
		Int("failed", failed).
		Int("workers", concurrency).
		Msg("Batch finished")

	return out
}

func evaluate(j indexedJob, env Env) Result {
	res := Result{Index: j.Index, Op: j.Job.Op}

	value, ok, err := Evaluate(j.Job, env)
	switch {
	case err != nil:
		res.Error = err.Error()
		log.Warn().Err(err).Int("index", j.Index).Str("op", j.Job.Op).Msg("Job failed")
	case !ok:
		res.NoResult = true
		log.Debug().Int("index", j.Index).Str("op", j.Job.Op).Msg("Job has no result")
	default:
		res.Value = value
		log.Debug().Int("index", j.Index).Str("op", j.Job.Op).Msg("Job evaluated")
	}

	return res
}

// Evaluate runs a single job. ok is false only for an intersection without
// a unique answer.
func Evaluate(j Job, env Env) (interface{}, bool, error) {
	switch j.Op {
	case OpBearing:
		if err := requirePair(j); err != nil {
			return nil, false, err
		}
		return geo.BearingTo(*j.From, *j.To), true, nil

	case OpDestination:
		if err := requireFrom(j); err != nil {
			return nil, false, err
		}
		c, err := geo.DestinationPoint(*j.From, j.Bearing, j.Distance)
		if err != nil {
			return nil, false, err
		}
		return c, true, nil

	case OpMidpoint:
		if err := requirePair(j); err != nil {
			return nil, false, err
		}
		return geo.MidpointTo(*j.From, *j.To), true, nil

	case OpIntersection:
		if err := requirePair(j); err != nil {
			return nil, false, err
		}
		tol := env.Tolerance
		if tol <= 0 {
			tol = geo.DefaultTolerance
		}
		c, ok, err := geo.IntersectionWithTolerance(*j.From, j.Bearing, *j.To, j.Bearing2, tol)
		if err != nil || !ok {
			return nil, ok, err
		}
		return c, true, nil

	case OpDistance:
		if err := requirePair(j); err != nil {
			return nil, false, err
		}
		return geo.DistanceTo(*j.From, *j.To), true, nil

	case OpScreen:
		if err := requireFrom(j); err != nil {
			return nil, false, err
		}
		if env.Viewport == nil {
			return nil, false, fmt.Errorf("%s: %w", j.Op, ErrNoViewport)
		}
		return projection.ToScreenPoint(env.Viewport, *j.From), true, nil

	case OpGeo:
		if j.Pixel == nil {
			return nil, false, fmt.Errorf("%s: missing pixel", j.Op)
		}
		if env.Viewport == nil {
			return nil, false, fmt.Errorf("%s: %w", j.Op, ErrNoViewport)
		}
		return projection.ToGeoCoordinate(env.Viewport, *j.Pixel), true, nil

	case OpScale:
		opt := j.Scale.Merge(env.Scale)
		if env.Viewport == nil && (opt.Zoom == nil || opt.Lat == nil) {
			return nil, false, fmt.Errorf("%s without zoom and lat: %w", j.Op, ErrNoViewport)
		}
		return projection.EstimateScale(env.Viewport, opt), true, nil

	case OpTile:
		if err := requireFrom(j); err != nil {
			return nil, false, err
		}
		t, err := projection.TileFor(projection.WebMercator{}, *j.From, j.Zoom)
		if err != nil {
			return nil, false, err
		}
		return t, true, nil
	}

	return nil, false, fmt.Errorf("unknown operation %q", j.Op)
}

func requireFrom(j Job) error {
	if j.From == nil {
		return fmt.Errorf("%s: missing from", j.Op)
	}
	return nil
}

func requirePair(j Job) error {
	if err := requireFrom(j); err != nil {
		return err
	}
	if j.To == nil {
		return fmt.Errorf("%s: missing to", j.Op)
	}
	return nil
}

// Features exports the coordinate results as GeoJSON points, tagged with
// their job index and operation.
func Features(results []Result) geo.GeoJSONFeatureCollection {
	features := make([]geo.GeoJSONFeature, 0, len(results))
	for _, r := range results {
		c, ok := r.Value.(geo.Coordinate)
		if !ok {
			continue
		}
		features = append(features, geo.PointFeature(c, map[string]interface{}{
			"index": r.Index,
			"op":    r.Op,
		}))
	}

	return geo.NewFeatureCollection(features...)
}
