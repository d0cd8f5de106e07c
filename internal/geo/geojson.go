package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point or LineString).
// Coordinates holds either a single [Lon, Lat] position or a list of them.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// Position returns the coordinate in GeoJSON [Lon, Lat] order.
func (c Coordinate) Position() []float64 {
	return []float64{c.Lng, c.Lat}
}

// PointFeature wraps a coordinate into a GeoJSON Point feature.
func PointFeature(c Coordinate, props map[string]interface{}) GeoJSONFeature {
	if props == nil {
		props = map[string]interface{}{}
	}

	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: c.Position(),
		},
		Properties: props,
	}
}

// LineFeature builds a GeoJSON LineString feature through the given points.
func LineFeature(points []Coordinate, props map[string]interface{}) GeoJSONFeature {
	if props == nil {
		props = map[string]interface{}{}
	}

	positions := make([][]float64, 0, len(points))
	for _, p := range points {
		positions = append(positions, p.Position())
	}

	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "LineString",
			Coordinates: positions,
		},
		Properties: props,
	}
}

// NewFeatureCollection groups features into a FeatureCollection.
func NewFeatureCollection(features ...GeoJSONFeature) GeoJSONFeatureCollection {
	if features == nil {
		features = []GeoJSONFeature{}
	}
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}
}
