package model

import "time"

type Skill struct {
	ID        string
	Name      string
	Category  string
	Level     int
	Icon      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SkillInput struct {
	Name     string
	Category string
	Level    int
	Icon     string
	Position int
}
