package dto

type ProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"image_url"`
	ProjectURL   string   `json:"project_url"`
	GithubURL    string   `json:"github_url"`
	Featured     bool     `json:"featured"`
	Position     int      `json:"position"`
}

type ProjectResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"image_url,omitempty"`
	ProjectURL   string   `json:"project_url,omitempty"`
	GithubURL    string   `json:"github_url,omitempty"`
	Featured     bool     `json:"featured"`
	Position     int      `json:"position"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}
