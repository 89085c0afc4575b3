// Package project lists volunteer projects on a map and answers proximity
// searches. Only organisation accounts can create projects.
package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/volunhub/volunhub/pkg/geo"
)

// Project is a volunteer project pinned to a location.
type Project struct {
	ID        uuid.UUID
	Name      string
	Location  geo.Point
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NearbyProject pairs a project with its distance from a search origin.
type NearbyProject struct {
	Project    *Project
	DistanceKM float64
}
