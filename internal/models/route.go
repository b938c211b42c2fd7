package models

import "time"

// Route describes a shuttle line between two points. Routes are never
// auto-deleted, even when no trip references them anymore.
type Route struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	StartPoint        string    `json:"startPoint"`
	EndPoint          string    `json:"endPoint"`
	Distance          float64   `json:"distance"`          // kilometres
	EstimatedDuration int       `json:"estimatedDuration"` // minutes
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
