package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/dmitrymomot/mailcraft/pkg/pg"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

// DB is the subset of *pgxpool.Pool used by PostgresRepository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores templates in the email_templates table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const templateColumns = `id, subject, description, template_code, category, visibility,
	COALESCE(sender, '') AS sender, created_at`

// Vectors travel as their text form and are cast server side, so the pool
// works without registering the pgvector type.
func embeddingArg(v vectorizer.Vector) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v.Float32())
}

func (r *PostgresRepository) Insert(ctx context.Context, tpl NewTemplate, embedding vectorizer.Vector) (*Template, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO email_templates (subject, description, template_code, category, visibility, sender, embedding)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7::text::vector)
		RETURNING `+templateColumns,
		tpl.Subject, tpl.Description, tpl.TemplateCode, tpl.Category, tpl.Visibility, tpl.Sender,
		embeddingArg(embedding),
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[Template])
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return saved, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Template, error) {
	rows, err := r.db.Query(ctx, `SELECT `+templateColumns+` FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	tpl, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[Template])
	if err != nil {
		if pg.IsNoRows(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Template, error) {
	return r.collect(ctx, "list templates", `
		SELECT `+templateColumns+`
		FROM email_templates
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SearchKeyword ranks rows by ts_rank over the weighted subject and description vector.
func (r *PostgresRepository) SearchKeyword(ctx context.Context, query string, limit int) ([]Template, error) {
	return r.collect(ctx, "keyword search", `
		SELECT `+templateColumns+`, ts_rank(search, q)::float8 AS similarity
		FROM email_templates, websearch_to_tsquery('english', $1) AS q
		WHERE search @@ q
		ORDER BY similarity DESC, id DESC
		LIMIT $2`, query, limit)
}

// SearchSemantic ranks rows by cosine similarity to embedding.
func (r *PostgresRepository) SearchSemantic(ctx context.Context, embedding vectorizer.Vector, limit int) ([]Template, error) {
	if len(embedding) == 0 {
		return nil, errors.New("semantic search: empty embedding")
	}
	return r.collect(ctx, "semantic search", `
		SELECT `+templateColumns+`, (1 - (embedding <=> $1::text::vector))::float8 AS similarity
		FROM email_templates
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::text::vector
		LIMIT $2`, embeddingArg(embedding), limit)
}

func (r *PostgresRepository) ListMissingEmbeddings(ctx context.Context) ([]Template, error) {
	return r.collect(ctx, "list missing embeddings", `
		SELECT `+templateColumns+`
		FROM email_templates
		WHERE embedding IS NULL
		ORDER BY id`)
}

func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, id int64, embedding vectorizer.Vector) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE email_templates SET embedding = $2::text::vector, updated_at = now() WHERE id = $1`,
		id, embeddingArg(embedding),
	)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *PostgresRepository) collect(ctx context.Context, op, sql string, args ...any) ([]Template, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[Template])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
