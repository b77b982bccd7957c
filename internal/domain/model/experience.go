package model

import "time"

// Experience dates are kept as YYYY-MM strings: the site renders them
// verbatim and an open-ended position has no end date at all.
type Experience struct {
	ID          string
	Title       string
	Company     string
	Location    string
	StartDate   string
	EndDate     string
	Current     bool
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	StartDate   string
	EndDate     string
	Current     bool
	Description string
	Position    int
}
