package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devang9890/resume/internal/domain/resume"
)

type postgresResumeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresResumeRepo(db *pgxpool.Pool) resume.Repository {
	return &postgresResumeRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var resumeColumns = []string{
	"id", "owner_id", "title", "public", "professional_summary", "skills",
	"personal_info", "experience", "projects", "education",
	"template", "accent_color", "image_asset_id", "created_at", "updated_at",
}

// resumeDocs holds the JSONB columns in encoded form.
type resumeDocs struct {
	personalInfo []byte
	experience   []byte
	projects     []byte
	education    []byte
}

func encodeDocs(r *resume.Resume) (resumeDocs, error) {
	var d resumeDocs
	var err error
	if d.personalInfo, err = json.Marshal(r.PersonalInfo); err != nil {
		return d, fmt.Errorf("failed to marshal personal_info: %w", err)
	}
	if d.experience, err = json.Marshal(r.Experience); err != nil {
		return d, fmt.Errorf("failed to marshal experience: %w", err)
	}
	if d.projects, err = json.Marshal(r.Projects); err != nil {
		return d, fmt.Errorf("failed to marshal projects: %w", err)
	}
	if d.education, err = json.Marshal(r.Education); err != nil {
		return d, fmt.Errorf("failed to marshal education: %w", err)
	}
	return d, nil
}

func scanResume(row pgx.Row) (*resume.Resume, error) {
	r := &resume.Resume{}
	var d resumeDocs

	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&r.Public,
		&r.ProfessionalSummary,
		&r.Skills,
		&d.personalInfo,
		&d.experience,
		&d.projects,
		&d.education,
		&r.Template,
		&r.AccentColor,
		&r.ImageAssetID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, resume.ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to scan resume row: %w", err)
	}

	if err := json.Unmarshal(d.personalInfo, &r.PersonalInfo); err != nil {
		return nil, fmt.Errorf("failed to decode personal_info of resume %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(d.experience, &r.Experience); err != nil {
		return nil, fmt.Errorf("failed to decode experience of resume %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(d.projects, &r.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects of resume %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(d.education, &r.Education); err != nil {
		return nil, fmt.Errorf("failed to decode education of resume %s: %w", r.ID, err)
	}
	r.EnsureSequences()
	return r, nil
}

func (r *postgresResumeRepo) Create(ctx context.Context, doc *resume.Resume) error {
	d, err := encodeDocs(doc)
	if err != nil {
		return err
	}
	doc.EnsureSequences()

	query, args, err := psql.Insert("resumes").
		Columns(resumeColumns...).
		Values(
			doc.ID, doc.OwnerID, doc.Title, doc.Public, doc.ProfessionalSummary, doc.Skills,
			d.personalInfo, d.experience, d.projects, d.education,
			doc.Template, doc.AccentColor, doc.ImageAssetID, doc.CreatedAt, doc.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert resume query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	return nil
}

func (r *postgresResumeRepo) findOne(ctx context.Context, where sq.Eq) (*resume.Resume, error) {
	query, args, err := psql.Select(resumeColumns...).From("resumes").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select resume query: %w", err)
	}
	return scanResume(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresResumeRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*resume.Resume, error) {
	return r.findOne(ctx, sq.Eq{"id": id, "owner_id": ownerID})
}

func (r *postgresResumeRepo) FindPublicByID(ctx context.Context, id uuid.UUID) (*resume.Resume, error) {
	return r.findOne(ctx, sq.Eq{"id": id, "public": true})
}

func (r *postgresResumeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	query, args, err := psql.Select(resumeColumns...).
		From("resumes").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list resumes query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	out := make([]*resume.Resume, 0)
	for rows.Next() {
		doc, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resume rows: %w", err)
	}
	return out, nil
}

// Replace overwrites every mutable column of an owned document.
func (r *postgresResumeRepo) Replace(ctx context.Context, doc *resume.Resume) error {
	d, err := encodeDocs(doc)
	if err != nil {
		return err
	}
	doc.EnsureSequences()

	query, args, err := psql.Update("resumes").
		SetMap(map[string]any{
			"title":                doc.Title,
			"public":               doc.Public,
			"professional_summary": doc.ProfessionalSummary,
			"skills":               doc.Skills,
			"personal_info":        d.personalInfo,
			"experience":           d.experience,
			"projects":             d.projects,
			"education":            d.education,
			"template":             doc.Template,
			"accent_color":         doc.AccentColor,
			"image_asset_id":       doc.ImageAssetID,
			"updated_at":           doc.UpdatedAt,
		}).
		Where(sq.Eq{"id": doc.ID, "owner_id": doc.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update resume query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrResumeNotFound
	}
	return nil
}

func (r *postgresResumeRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*resume.Resume, error) {
	query, args, err := psql.Delete("resumes").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		Suffix("RETURNING " + strings.Join(resumeColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete resume query: %w", err)
	}

	doc, err := scanResume(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, resume.ErrResumeNotFound) {
		return nil, nil
	}
	return doc, err
}

