package geometry

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection is the subset of GeoJSON the validator consumes.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *Geometry              `json:"geometry"`
}

// Geometry keeps coordinates raw: their shape depends on Type and is decoded
// lazily by Polygons.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// CountryCode returns the ISO_A3 property, or "" when absent.
func (f *Feature) CountryCode() string {
	if f.Properties == nil {
		return ""
	}
	if code, ok := f.Properties["ISO_A3"].(string); ok {
		return code
	}
	return ""
}

// CountryName returns the ADMIN (or NAME) property, or "" when absent.
func (f *Feature) CountryName() string {
	if f.Properties == nil {
		return ""
	}
	if name, ok := f.Properties["ADMIN"].(string); ok {
		return name
	}
	if name, ok := f.Properties["NAME"].(string); ok {
		return name
	}
	return ""
}

// Polygons decodes the coordinate payload into a uniform multi-polygon
// shape: polygons -> rings -> positions. A Polygon becomes a one-element
// slice. Positions keep any extra ordinates (altitude) but only the first
// two are validated.
func (g *Geometry) Polygons() ([][][][]float64, error) {
	switch g.Type {
	case "Polygon":
		var poly [][][]float64
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return nil, fmt.Errorf("decode Polygon coordinates: %w", err)
		}
		return [][][][]float64{poly}, nil
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("decode MultiPolygon coordinates: %w", err)
		}
		return multi, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}
