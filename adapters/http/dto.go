package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/internal/domain/user"
)

// User DTOs
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Resume DTOs
type CreateResumeRequest struct {
	Title string `json:"title"`
}

type UploadResumeRequest struct {
	ResumeText string `json:"resumeText"`
	Title      string `json:"title"`
}

type EnhanceRequest struct {
	UserContent string `json:"userContent"`
}

type ResumeDTO struct {
	ID                  uuid.UUID           `json:"id"`
	Title               string              `json:"title"`
	Public              bool                `json:"public"`
	ProfessionalSummary string              `json:"professional_summary"`
	Skills              []string            `json:"skills"`
	PersonalInfo        resume.PersonalInfo `json:"personal_info"`
	Experience          []resume.Experience `json:"experience"`
	Projects            []resume.Project    `json:"projects"`
	Education           []resume.Education  `json:"education"`
	Template            resume.Template     `json:"template"`
	AccentColor         string              `json:"accent_color"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func ToResumeDTO(r *resume.Resume) ResumeDTO {
	r.EnsureSequences()
	return ResumeDTO{
		ID:                  r.ID,
		Title:               r.Title,
		Public:              r.Public,
		ProfessionalSummary: r.ProfessionalSummary,
		Skills:              r.Skills,
		PersonalInfo:        r.PersonalInfo,
		Experience:          r.Experience,
		Projects:            r.Projects,
		Education:           r.Education,
		Template:            r.Template,
		AccentColor:         r.AccentColor,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func ToResumeDTOs(rs []*resume.Resume) []ResumeDTO {
	dtos := make([]ResumeDTO, len(rs))
	for i, r := range rs {
		dtos[i] = ToResumeDTO(r)
	}
	return dtos
}

// DefectDTO is a validator finding reported alongside a successful write.
type DefectDTO struct {
	Kind   resume.DefectKind `json:"kind"`
	Field  string            `json:"field"`
	Detail string            `json:"detail,omitempty"`
}

func ToDefectDTOs(defects []resume.Defect) []DefectDTO {
	dtos := make([]DefectDTO, len(defects))
	for i, d := range defects {
		dtos[i] = DefectDTO{Kind: d.Kind, Field: d.Field, Detail: d.Detail}
	}
	return dtos
}
