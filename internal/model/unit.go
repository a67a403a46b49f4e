package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Unit is a physical clinic location with rooms, offered services and nested
// health plans.
type Unit struct {
	Base
	Name        string         `db:"name" json:"name"`
	Address     string         `db:"address" json:"address"`
	Rooms       pq.StringArray `db:"rooms" json:"rooms"`
	Services    pq.StringArray `db:"services" json:"services"`
	HealthPlans []HealthPlan   `db:"-" json:"health_plans"`
}

// HealthPlan is an insurance/coverage plan associated with a unit.
type HealthPlan struct {
	Base
	UnitID   uuid.UUID `db:"unit_id" json:"unit_id"`
	Name     string    `db:"name" json:"name"`
	Coverage string    `db:"coverage" json:"coverage"`
	Active   bool      `db:"active" json:"active"`
}

type CreateUnitRequest struct {
	Name     string   `json:"name" validate:"required"`
	Address  string   `json:"address" validate:"required"`
	Rooms    []string `json:"rooms"`
	Services []string `json:"services"`
}

type UpdateUnitRequest struct {
	Name     *string  `json:"name"`
	Address  *string  `json:"address"`
	Rooms    []string `json:"rooms"`
	Services []string `json:"services"`
}

type CreateHealthPlanRequest struct {
	Name     string `json:"name" validate:"required"`
	Coverage string `json:"coverage"`
	Active   *bool  `json:"active"`
}

type UpdateHealthPlanRequest struct {
	Name     *string `json:"name"`
	Coverage *string `json:"coverage"`
	Active   *bool   `json:"active"`
}
