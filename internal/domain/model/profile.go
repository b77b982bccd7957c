package model

import "time"

// Profile is the site owner's card. It is a singleton: the repository keeps
// exactly one row and every update is an upsert.
type Profile struct {
	ID        string
	Name      string
	Title     string
	Bio       string
	Email     string
	Phone     string
	Location  string
	Website   string
	Github    string
	Linkedin  string
	AvatarURL string
	UpdatedAt time.Time
}

type ProfileInput struct {
	Name      string
	Title     string
	Bio       string
	Email     string
	Phone     string
	Location  string
	Website   string
	Github    string
	Linkedin  string
	AvatarURL string
}
