package dto

type ProfileRequest struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	Github    string `json:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	UpdatedAt string `json:"updated_at"`
}
