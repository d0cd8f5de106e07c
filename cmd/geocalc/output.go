package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/mapgeo/internal/geo"

	"gopkg.in/yaml.v3"
)

// emit writes a command result to stdout in the configured format. Results
// without a GeoJSON form fall back to JSON when geojson is requested.
func emit(format string, value interface{}, fc *geo.GeoJSONFeatureCollection) error {
	return write(os.Stdout, format, value, fc)
}

func write(w io.Writer, format string, value interface{}, fc *geo.GeoJSONFeatureCollection) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "yaml":
		data, err = yaml.Marshal(value)
	case "geojson":
		if fc != nil {
			data, err = json.MarshalIndent(fc, "", "  ")
		} else {
			data, err = json.MarshalIndent(value, "", "  ")
		}
	default:
		data, err = json.MarshalIndent(value, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal %s output: %w", format, err)
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = w.Write([]byte{'\n'})
	}
	return err
}
