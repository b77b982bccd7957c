package dto

type PortfolioResponse struct {
	Profile     *ProfileResponse     `json:"profile"`
	Projects    []ProjectResponse    `json:"projects"`
	Skills      []SkillResponse      `json:"skills"`
	Experiences []ExperienceResponse `json:"experiences"`
}
