package resume

import (
	_ "embed"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schema = mustCompileSchema(schemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("resume: invalid embedded schema: " + err.Error())
	}
	return s
}

type Mode int

const (
	// ModeFull is the creation path: absent fields get empty defaults.
	ModeFull Mode = iota
	// ModePartial is the update path: only supplied fields are checked.
	ModePartial
)

type DefectKind string

const (
	DefectTypeMismatch    DefectKind = "TypeMismatch"
	DefectInvalidValue    DefectKind = "InvalidValue"
	DefectMissingRequired DefectKind = "MissingRequired"
)

// Defect is a discrepancy between a candidate and the schema. The
// offending value has already been replaced by its empty default.
type Defect struct {
	Kind   DefectKind `json:"kind"`
	Field  string     `json:"field"`
	Detail string     `json:"detail,omitempty"`
}

// Root is the top-level field the defect belongs to.
func (d Defect) Root() Field {
	root, _, _ := strings.Cut(d.Field, ".")
	return Field(root)
}

// PartitionDefects splits defects into those rooted in touched fields and
// the rest.
func PartitionDefects(defects []Defect, touched []Field) (inTouched, other []Defect) {
	for _, d := range defects {
		if slices.Contains(touched, d.Root()) {
			inTouched = append(inTouched, d)
		} else {
			other = append(other, d)
		}
	}
	return inTouched, other
}

// Fragment is a typed, validated subset of a document. A nil field was
// not supplied.
type Fragment struct {
	Title               *string       `json:"title"`
	Public              *bool         `json:"public"`
	ProfessionalSummary *string       `json:"professional_summary"`
	Skills              *[]string     `json:"skills"`
	PersonalInfo        *PersonalInfo `json:"personal_info"`
	Experience          *[]Experience `json:"experience"`
	Projects            *[]Project    `json:"projects"`
	Education           *[]Education  `json:"education"`
	Template            *Template     `json:"template"`
	AccentColor         *string       `json:"accent_color"`
}

func (f Fragment) Has(field Field) bool {
	switch field {
	case FieldTitle:
		return f.Title != nil
	case FieldPublic:
		return f.Public != nil
	case FieldProfessionalSummary:
		return f.ProfessionalSummary != nil
	case FieldSkills:
		return f.Skills != nil
	case FieldPersonalInfo:
		return f.PersonalInfo != nil
	case FieldExperience:
		return f.Experience != nil
	case FieldProjects:
		return f.Projects != nil
	case FieldEducation:
		return f.Education != nil
	case FieldTemplate:
		return f.Template != nil
	case FieldAccentColor:
		return f.AccentColor != nil
	}
	return false
}

// Validate checks candidate against the resume schema and returns the
// best-effort typed fragment plus every defect found. It never fails: a
// value that does not fit is replaced by its empty default and reported.
// Unknown top-level keys are dropped without a defect.
func Validate(candidate map[string]any, mode Mode) (Fragment, []Defect) {
	doc := make(map[string]any, len(Fields))
	for _, f := range Fields {
		v, ok := candidate[string(f)]
		if !ok {
			continue
		}
		doc[string(f)] = fillNulls(cloneValue(v), []string{string(f)})
	}

	var defects []Defect
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		defects = append(defects, Defect{Kind: DefectTypeMismatch, Field: "(root)", Detail: err.Error()})
		doc = map[string]any{}
	} else {
		seen := make(map[string]bool)
		for _, re := range result.Errors() {
			path := re.Field()
			if seen[path] {
				continue
			}
			seen[path] = true
			defects = append(defects, Defect{Kind: defectKind(re.Type()), Field: path, Detail: re.Description()})
			resetPath(doc, strings.Split(path, "."))
		}
	}
	compactSequences(doc)

	var frag Fragment
	if err := decodeFragment(doc, &frag); err != nil {
		defects = append(defects, Defect{Kind: DefectTypeMismatch, Field: "(root)", Detail: err.Error()})
		frag = Fragment{}
	}

	if frag.Title != nil && strings.TrimSpace(*frag.Title) == "" {
		defects = append(defects, Defect{Kind: DefectMissingRequired, Field: string(FieldTitle), Detail: "title must not be empty"})
	}

	if mode == ModeFull {
		frag.fillDefaults()
	}
	frag.normalize()

	sort.SliceStable(defects, func(i, j int) bool { return defects[i].Field < defects[j].Field })
	return frag, defects
}

func defectKind(schemaErrType string) DefectKind {
	if schemaErrType == "invalid_type" {
		return DefectTypeMismatch
	}
	return DefectInvalidValue
}

func decodeFragment(doc map[string]any, out *Fragment) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(doc)
}

func (f *Fragment) fillDefaults() {
	if f.Title == nil {
		f.Title = ptr("")
	}
	if f.Public == nil {
		f.Public = ptr(false)
	}
	if f.ProfessionalSummary == nil {
		f.ProfessionalSummary = ptr("")
	}
	if f.Skills == nil {
		f.Skills = &[]string{}
	}
	if f.PersonalInfo == nil {
		f.PersonalInfo = &PersonalInfo{}
	}
	if f.Experience == nil {
		f.Experience = &[]Experience{}
	}
	if f.Projects == nil {
		f.Projects = &[]Project{}
	}
	if f.Education == nil {
		f.Education = &[]Education{}
	}
	if f.Template == nil {
		f.Template = ptr(DefaultTemplate)
	}
	if f.AccentColor == nil {
		f.AccentColor = ptr(DefaultAccentColor)
	}
}

func (f *Fragment) normalize() {
	if f.Skills != nil {
		skills := make([]string, 0, len(*f.Skills))
		for _, s := range *f.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		f.Skills = &skills
	}
	if f.Experience != nil {
		if *f.Experience == nil {
			*f.Experience = []Experience{}
		}
		for i := range *f.Experience {
			e := &(*f.Experience)[i]
			if e.IsCurrent && e.EndDate != "" {
				e.EndDate = ""
			}
		}
	}
	if f.Projects != nil && *f.Projects == nil {
		*f.Projects = []Project{}
	}
	if f.Education != nil && *f.Education == nil {
		*f.Education = []Education{}
	}
}

// removed marks a sequence element that failed its type check.
type removed struct{}

func isSequence(f Field) bool {
	switch f {
	case FieldSkills, FieldExperience, FieldProjects, FieldEducation:
		return true
	}
	return false
}

func topDefault(f Field) any {
	switch f {
	case FieldPublic:
		return false
	case FieldSkills, FieldExperience, FieldProjects, FieldEducation:
		return []any{}
	case FieldPersonalInfo:
		return map[string]any{}
	case FieldTemplate:
		return string(DefaultTemplate)
	case FieldAccentColor:
		return DefaultAccentColor
	}
	return ""
}

// emptyAt is the empty default for the value at path. Elements of
// sequences have no default and are removed instead.
func emptyAt(path []string) (value any, remove bool) {
	root := Field(path[0])
	switch len(path) {
	case 1:
		return topDefault(root), false
	case 2:
		if isSequence(root) {
			return nil, true
		}
		return "", false
	}
	if path[len(path)-1] == "is_current" {
		return false, false
	}
	return "", false
}

func fillNulls(v any, path []string) any {
	if v == nil {
		def, remove := emptyAt(path)
		if remove {
			return nil
		}
		return def
	}
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = fillNulls(child, childPath(path, k))
		}
	case []any:
		for i, child := range t {
			t[i] = fillNulls(child, childPath(path, strconv.Itoa(i)))
		}
	}
	return v
}

func resetPath(doc map[string]any, segs []string) {
	if len(segs) == 0 || segs[0] == "" || segs[0] == "(root)" {
		return
	}
	value, remove := emptyAt(segs)

	var parent any = doc
	for _, seg := range segs[:len(segs)-1] {
		switch p := parent.(type) {
		case map[string]any:
			parent = p[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(p) {
				return
			}
			parent = p[i]
		default:
			return
		}
	}

	last := segs[len(segs)-1]
	switch p := parent.(type) {
	case map[string]any:
		p[last] = value
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(p) {
			return
		}
		if remove {
			p[i] = removed{}
		} else {
			p[i] = value
		}
	}
}

func compactSequences(doc map[string]any) {
	for _, f := range Fields {
		if !isSequence(f) {
			continue
		}
		seq, ok := doc[string(f)].([]any)
		if !ok {
			continue
		}
		kept := make([]any, 0, len(seq))
		for _, v := range seq {
			if _, gone := v.(removed); !gone {
				kept = append(kept, v)
			}
		}
		doc[string(f)] = kept
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[k] = cloneValue(child)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, child := range t {
			s[i] = cloneValue(child)
		}
		return s
	}
	return v
}

func childPath(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func ptr[T any](v T) *T {
	return &v
}
