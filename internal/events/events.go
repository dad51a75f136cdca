package events

import (
	"time"

	"github.com/google/uuid"
)

type IndexComputedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Year         int       `json:"year"`
	Scheme       string    `json:"scheme"`
	CountryCount int       `json:"country_count"`
	Timestamp    time.Time `json:"timestamp"`
}

type CacheClearedEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

type SchemeRegisteredEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Scheme    string    `json:"scheme"`
	Timestamp time.Time `json:"timestamp"`
}

type GeometryValidatedEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	TotalFeatures int       `json:"total_features"`
	ValidFeatures int       `json:"valid_features"`
	ErrorCount    int       `json:"error_count"`
	Timestamp     time.Time `json:"timestamp"`
}
