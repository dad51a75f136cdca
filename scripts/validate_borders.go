// validate_borders.go — standalone script to push a GeoJSON border dataset
// through the Atlas validation endpoint and print the report summary.
//
// Usage:
//
//	go run scripts/validate_borders.go -geojson /path/to/borders.geojson -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

type batchSummary struct {
	TotalFeatures   int            `json:"total_features"`
	ValidFeatures   int            `json:"valid_features"`
	SeverityCounts  map[string]int `json:"severity_counts"`
	Recommendations []struct {
		Priority string `json:"priority"`
		Message  string `json:"message"`
	} `json:"recommendations"`
}

func main() {
	geojsonPath := flag.String("geojson", "borders.geojson", "path to GeoJSON FeatureCollection")
	apiURL := flag.String("api", "http://localhost:8700", "Atlas API base URL")
	flag.Parse()

	data, err := os.ReadFile(*geojsonPath)
	if err != nil {
		log.Fatalf("read geojson: %v", err)
	}

	resp, err := http.Post(*apiURL+"/api/v1/geometry/validate", "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("post validation: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("validation failed: %s", resp.Status)
	}

	var summary batchSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		log.Fatalf("decode report: %v", err)
	}

	fmt.Printf("features: %d  valid: %d  errors: %d  warnings: %d\n",
		summary.TotalFeatures, summary.ValidFeatures,
		summary.SeverityCounts["ERROR"], summary.SeverityCounts["WARNING"])
	for _, rec := range summary.Recommendations {
		fmt.Printf("[%s] %s\n", rec.Priority, rec.Message)
	}
}
