package model

import (
	"fmt"
	"math"
	"time"
)

// Court is read-only catalog data. The engine never writes it.
type Court struct {
	ID                  string  `json:"id" bson:"_id" yaml:"id" validate:"required,max=100"`
	ComplexID           string  `json:"complex_id" bson:"complex_id" yaml:"complex_id" validate:"required,max=100"`
	Name                string  `json:"name" bson:"name" yaml:"name" validate:"omitempty,max=100"`
	OpeningTime         string  `json:"opening_time" bson:"opening_time" yaml:"opening_time" validate:"required,time_of_day"`
	ClosingTime         string  `json:"closing_time" bson:"closing_time" yaml:"closing_time" validate:"required,time_of_day"`
	ReservationDuration float64 `json:"reservation_duration" bson:"reservation_duration" yaml:"reservation_duration" validate:"gt=0,lte=24"`
	HourlyRate          float64 `json:"hourly_rate" bson:"hourly_rate" yaml:"hourly_rate" validate:"gte=0"`
	Divisible           bool    `json:"divisible" bson:"divisible" yaml:"divisible"`
	MaxDivisions        int     `json:"max_divisions" bson:"max_divisions" yaml:"max_divisions" validate:"gte=0,lte=16"`
	Timezone            string  `json:"timezone,omitempty" bson:"timezone,omitempty" yaml:"timezone" validate:"omitempty,timezone"`
}

// SectionCount is the number of independently bookable sections, zero for
// a court that cannot be divided.
func (c *Court) SectionCount() int {
	if !c.Divisible {
		return 0
	}
	return c.MaxDivisions
}

// RateCents is the hourly rate in minor currency units.
func (c *Court) RateCents() int64 {
	return int64(math.Round(c.HourlyRate * 100))
}

func (c *Court) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("court %s has unknown timezone %q: %w", c.ID, c.Timezone, err)
	}
	return loc, nil
}

// PriceCents charges the hourly rate for d, rounded half up to the cent.
func (c *Court) PriceCents(d time.Duration) int64 {
	minutes := int64(d / time.Minute)
	return (c.RateCents()*minutes + 30) / 60
}
