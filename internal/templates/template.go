package templates

import (
	"context"
	"time"

	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

const (
	DefaultCategory   = "general"
	DefaultVisibility = "public"
)

// Search types reported by Service.Search.
const (
	SearchHybrid   = "hybrid"
	SearchSemantic = "semantic"
)

// Template is a stored email template. Similarity is set on search results only.
type Template struct {
	ID           int64     `json:"id" db:"id"`
	Subject      string    `json:"subject" db:"subject"`
	Description  string    `json:"description" db:"description"`
	TemplateCode string    `json:"template_code,omitempty" db:"template_code"`
	Category     string    `json:"category,omitempty" db:"category"`
	Visibility   string    `json:"visibility,omitempty" db:"visibility"`
	Sender       string    `json:"sender,omitempty" db:"sender"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Similarity   *float64  `json:"similarity,omitempty" db:"similarity"`
}

// NewTemplate is the insert payload.
type NewTemplate struct {
	Subject      string
	Description  string
	TemplateCode string
	Category     string
	Visibility   string
	Sender       string
}

// Repository persists templates.
type Repository interface {
	Insert(ctx context.Context, tpl NewTemplate, embedding vectorizer.Vector) (*Template, error)
	Get(ctx context.Context, id int64) (*Template, error)
	List(ctx context.Context, limit int) ([]Template, error)
	Delete(ctx context.Context, id int64) (bool, error)

	SearchKeyword(ctx context.Context, query string, limit int) ([]Template, error)
	SearchSemantic(ctx context.Context, embedding vectorizer.Vector, limit int) ([]Template, error)

	ListMissingEmbeddings(ctx context.Context) ([]Template, error)
	UpdateEmbedding(ctx context.Context, id int64, embedding vectorizer.Vector) error
}

// Embedder turns text into a vector. *vectorizer.Vectorizer satisfies it.
type Embedder interface {
	ToVector(ctx context.Context, text string) (vectorizer.Vector, error)
}
