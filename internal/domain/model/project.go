package model

import "time"

type Project struct {
	ID           string
	Title        string
	Description  string
	Technologies []string
	ImageURL     string
	ProjectURL   string
	GithubURL    string
	Featured     bool
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProjectInput struct {
	Title        string
	Description  string
	Technologies []string
	ImageURL     string
	ProjectURL   string
	GithubURL    string
	Featured     bool
	Position     int
}
