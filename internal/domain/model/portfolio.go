package model

// Portfolio is the aggregate the public site renders in one request.
type Portfolio struct {
	Profile     *Profile
	Projects    []Project
	Skills      []Skill
	Experiences []Experience
}
