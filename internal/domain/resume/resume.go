package resume

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MinRawTextLength is the shortest text, in runes, worth sending to the
// extraction service.
const MinRawTextLength = 50

type Template string

const (
	TemplateClassic      Template = "classic"
	TemplateModern       Template = "modern"
	TemplateMinimalImage Template = "minimal-image"
	TemplateMinimal      Template = "minimal"

	DefaultTemplate    = TemplateClassic
	DefaultAccentColor = "#3B82F6"
)

var Templates = []Template{TemplateClassic, TemplateModern, TemplateMinimalImage, TemplateMinimal}

func (t Template) Valid() bool {
	return slices.Contains(Templates, t)
}

type PersonalInfo struct {
	Image      string `json:"image"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	LinkedIn   string `json:"linkedin"`
	Website    string `json:"website"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"is_current"`
}

type Project struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa"`
}

type Resume struct {
	ID                  uuid.UUID    `json:"id"`
	OwnerID             uuid.UUID    `json:"owner_id"`
	Title               string       `json:"title"`
	Public              bool         `json:"public"`
	ProfessionalSummary string       `json:"professional_summary"`
	Skills              []string     `json:"skills"`
	PersonalInfo        PersonalInfo `json:"personal_info"`
	Experience          []Experience `json:"experience"`
	Projects            []Project    `json:"projects"`
	Education           []Education  `json:"education"`
	Template            Template     `json:"template"`
	AccentColor         string       `json:"accent_color"`
	// ImageAssetID is the image service handle for PersonalInfo.Image.
	ImageAssetID string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrTitleRequired  = errors.New("title is required")
)

// New returns an empty document owned by ownerID.
func New(ownerID uuid.UUID, title string, now time.Time) *Resume {
	return &Resume{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Skills:      []string{},
		Experience:  []Experience{},
		Projects:    []Project{},
		Education:   []Education{},
		Template:    DefaultTemplate,
		AccentColor: DefaultAccentColor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (r *Resume) Clone() *Resume {
	c := *r
	c.Skills = slices.Clone(r.Skills)
	c.Experience = slices.Clone(r.Experience)
	c.Projects = slices.Clone(r.Projects)
	c.Education = slices.Clone(r.Education)
	c.EnsureSequences()
	return &c
}

// EnsureSequences replaces nil sequences with empty ones so renderers never
// see null.
func (r *Resume) EnsureSequences() {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
}

// ContentMap renders the schema fields as generic JSON values, the shape
// the validator and the merge operate on.
func (r *Resume) ContentMap() (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	content := make(map[string]any, len(Fields))
	for _, f := range Fields {
		if v, ok := all[string(f)]; ok {
			content[string(f)] = v
		}
	}
	return content, nil
}

type Repository interface {
	Create(ctx context.Context, r *Resume) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Resume, error)
	FindPublicByID(ctx context.Context, id uuid.UUID) (*Resume, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Resume, error)
	Replace(ctx context.Context, r *Resume) error
	// Delete removes an owned document and returns it, or nil when nothing
	// matched.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Resume, error)
}
