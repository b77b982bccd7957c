package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/services/media"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

const maxMultipartMemory = 8 << 20

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// decodeWriteRequest reads an entity write request that arrives either as
// plain JSON or as multipart form data with a "data" JSON part and an
// optional "image" file part.
func decodeWriteRequest(r *http.Request, target any) (*media.Upload, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, decodeJSON(r, target)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	data := r.FormValue("data")
	if data == "" {
		return nil, fmt.Errorf("multipart data part is required")
	}
	if err := json.Unmarshal([]byte(data), target); err != nil {
		return nil, fmt.Errorf("decode multipart data part: %w", err)
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image part: %w", err)
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	return &media.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        body,
	}, nil
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toProfileResponse(p model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Bio:       p.Bio,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Website:   p.Website,
		Github:    p.Github,
		Linkedin:  p.Linkedin,
		AvatarURL: p.AvatarURL,
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func toProjectResponse(p model.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Technologies: p.Technologies,
		ImageURL:     p.ImageURL,
		ProjectURL:   p.ProjectURL,
		GithubURL:    p.GithubURL,
		Featured:     p.Featured,
		Position:     p.Position,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
}

func toProjectResponses(projects []model.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toSkillResponse(s model.Skill) dto.SkillResponse {
	return dto.SkillResponse{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Level:    s.Level,
		Icon:     s.Icon,
		Position: s.Position,
	}
}

func toSkillResponses(skills []model.Skill) []dto.SkillResponse {
	out := make([]dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSkillResponse(s))
	}
	return out
}

func toExperienceResponse(e model.Experience) dto.ExperienceResponse {
	return dto.ExperienceResponse{
		ID:          e.ID,
		Title:       e.Title,
		Company:     e.Company,
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Current:     e.Current,
		Description: e.Description,
		Position:    e.Position,
	}
}

func toExperienceResponses(experiences []model.Experience) []dto.ExperienceResponse {
	out := make([]dto.ExperienceResponse, 0, len(experiences))
	for _, e := range experiences {
		out = append(out, toExperienceResponse(e))
	}
	return out
}
