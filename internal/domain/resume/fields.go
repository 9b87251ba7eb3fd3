package resume

import "slices"

// Field names a top-level schema field.
type Field string

const (
	FieldTitle               Field = "title"
	FieldPublic              Field = "public"
	FieldProfessionalSummary Field = "professional_summary"
	FieldSkills              Field = "skills"
	FieldPersonalInfo        Field = "personal_info"
	FieldExperience          Field = "experience"
	FieldProjects            Field = "projects"
	FieldEducation           Field = "education"
	FieldTemplate            Field = "template"
	FieldAccentColor         Field = "accent_color"
)

// Fields is every top-level field a client or the extraction service may
// supply. Identity and timestamps are deliberately absent.
var Fields = []Field{
	FieldTitle,
	FieldPublic,
	FieldProfessionalSummary,
	FieldSkills,
	FieldPersonalInfo,
	FieldExperience,
	FieldProjects,
	FieldEducation,
	FieldTemplate,
	FieldAccentColor,
}

// ContentFields are the fields the extraction service populates.
var ContentFields = []Field{
	FieldProfessionalSummary,
	FieldSkills,
	FieldPersonalInfo,
	FieldExperience,
	FieldProjects,
	FieldEducation,
}

func IsField(name string) bool {
	return slices.Contains(Fields, Field(name))
}

// MergeFields overlays patch onto current one top-level field at a time. A
// supplied field replaces the old value wholesale; nested sequences are not
// merged. Unknown patch keys are ignored. touched lists the patched fields
// in schema order.
func MergeFields(current, patch map[string]any) (merged map[string]any, touched []Field) {
	merged = make(map[string]any, len(Fields))
	for _, f := range Fields {
		key := string(f)
		if v, ok := patch[key]; ok {
			merged[key] = v
			touched = append(touched, f)
			continue
		}
		if v, ok := current[key]; ok {
			merged[key] = v
		}
	}
	return merged, touched
}

// Apply copies the listed fields from frag onto r. Fields absent from frag
// are left alone.
func (r *Resume) Apply(frag Fragment, fields []Field) {
	for _, f := range fields {
		switch f {
		case FieldTitle:
			if frag.Title != nil {
				r.Title = *frag.Title
			}
		case FieldPublic:
			if frag.Public != nil {
				r.Public = *frag.Public
			}
		case FieldProfessionalSummary:
			if frag.ProfessionalSummary != nil {
				r.ProfessionalSummary = *frag.ProfessionalSummary
			}
		case FieldSkills:
			if frag.Skills != nil {
				r.Skills = slices.Clone(*frag.Skills)
			}
		case FieldPersonalInfo:
			if frag.PersonalInfo != nil {
				r.PersonalInfo = *frag.PersonalInfo
			}
		case FieldExperience:
			if frag.Experience != nil {
				r.Experience = slices.Clone(*frag.Experience)
			}
		case FieldProjects:
			if frag.Projects != nil {
				r.Projects = slices.Clone(*frag.Projects)
			}
		case FieldEducation:
			if frag.Education != nil {
				r.Education = slices.Clone(*frag.Education)
			}
		case FieldTemplate:
			if frag.Template != nil {
				r.Template = *frag.Template
			}
		case FieldAccentColor:
			if frag.AccentColor != nil {
				r.AccentColor = *frag.AccentColor
			}
		}
	}
	r.EnsureSequences()
}
