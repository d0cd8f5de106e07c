package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/mapgeo/internal/geo"
)

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z int `json:"z" yaml:"z"`
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// TileFor returns the tile holding c at the given zoom. X wraps around the
// antimeridian and Y is clamped to the tile grid.
func TileFor(proj Projection, c geo.Coordinate, zoom int) (TileCoordinate, error) {
	if err := checkZoom(zoom); err != nil {
		return TileCoordinate{}, err
	}

	w := proj.ToWorld(c)
	scale := math.Exp2(float64(zoom))
	gridSize := 1 << zoom

	x := int(math.Floor(w.X * scale / TileSize))
	y := int(math.Floor(w.Y * scale / TileSize))

	x %= gridSize
	if x < 0 {
		x += gridSize
	}
	if y < 0 {
		y = 0
	} else if y >= gridSize {
		y = gridSize - 1
	}

	return TileCoordinate{Z: zoom, X: x, Y: y}, nil
}

// TMSY returns the row index in TMS order, counted from the bottom.
func (t TileCoordinate) TMSY() int {
	maxCoord := (1 << t.Z) - 1
	return maxCoord - t.Y
}

// NorthWest returns the coordinate of the tile's top-left corner.
func (t TileCoordinate) NorthWest(proj Projection) geo.Coordinate {
	size := TileSize / math.Exp2(float64(t.Z))
	return proj.FromWorld(WorldPoint{X: float64(t.X) * size, Y: float64(t.Y) * size})
}

// Expand fills a {z}/{x}/{y} template such as "tiles/{z}/{x}/{y}.webp".
// {tms_y} is replaced by the TMS row.
func (t TileCoordinate) Expand(tpl string) string {
	s := strings.ReplaceAll(tpl, "{z}", strconv.Itoa(t.Z))
	s = strings.ReplaceAll(s, "{x}", strconv.Itoa(t.X))
	s = strings.ReplaceAll(s, "{y}", strconv.Itoa(t.Y))

	if strings.Contains(s, "{tms_y}") {
		s = strings.ReplaceAll(s, "{tms_y}", strconv.Itoa(t.TMSY()))
	}

	return s
}

func (t TileCoordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}
