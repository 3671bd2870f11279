package templates_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

// memoryRepo is an in-memory Repository. Keyword search matches any query word
// in subject or description; semantic search returns rows with embeddings by id.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]templates.Template
	embeds map[int64]vectorizer.Vector

	keywordErr  error
	semanticErr error
	updateErr   map[int64]error
	insertErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]templates.Template{}, embeds: map[int64]vectorizer.Vector{}}
}

func (r *memoryRepo) Insert(_ context.Context, tpl templates.NewTemplate, embedding vectorizer.Vector) (*templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.nextID++
	row := templates.Template{
		ID:           r.nextID,
		Subject:      tpl.Subject,
		Description:  tpl.Description,
		TemplateCode: tpl.TemplateCode,
		Category:     tpl.Category,
		Visibility:   tpl.Visibility,
		Sender:       tpl.Sender,
		CreatedAt:    time.Now(),
	}
	r.rows[row.ID] = row
	if len(embedding) > 0 {
		r.embeds[row.ID] = embedding
	}
	return &row, nil
}

func (r *memoryRepo) seed(subject, description string, withEmbedding bool) int64 {
	var vec vectorizer.Vector
	if withEmbedding {
		vec = vectorizer.Vector{1, 0}
	}
	tpl, _ := r.Insert(context.Background(), templates.NewTemplate{
		Subject: subject, Description: description, TemplateCode: "<html>" + subject + "</html>",
	}, vec)
	return tpl.ID
}

func (r *memoryRepo) Get(_ context.Context, id int64) (*templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, templates.ErrTemplateNotFound
	}
	return &row, nil
}

func (r *memoryRepo) sorted() []templates.Template {
	out := make([]templates.Template, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryRepo) List(_ context.Context, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.sorted()
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *memoryRepo) SearchKeyword(_ context.Context, query string, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keywordErr != nil {
		return nil, r.keywordErr
	}
	var out []templates.Template
	for _, row := range r.sorted() {
		text := strings.ToLower(row.Subject + " " + row.Description)
		for _, word := range strings.Fields(strings.ToLower(query)) {
			if strings.Contains(text, word) {
				out = append(out, row)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) SearchSemantic(_ context.Context, _ vectorizer.Vector, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.semanticErr != nil {
		return nil, r.semanticErr
	}
	var out []templates.Template
	for _, row := range r.sorted() {
		if _, ok := r.embeds[row.ID]; ok {
			out = append(out, row)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) ListMissingEmbeddings(context.Context) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []templates.Template
	for _, row := range r.sorted() {
		if _, ok := r.embeds[row.ID]; !ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateEmbedding(_ context.Context, id int64, embedding vectorizer.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return err
	}
	r.embeds[id] = embedding
	return nil
}

func (r *memoryRepo) hasEmbedding(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.embeds[id]
	return ok
}

// recordingEmbedder returns a fixed vector and records every input.
type recordingEmbedder struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (e *recordingEmbedder) ToVector(_ context.Context, text string) (vectorizer.Vector, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs = append(e.inputs, text)
	if e.err != nil {
		return nil, e.err
	}
	return vectorizer.Vector{1, 0}, nil
}

func (e *recordingEmbedder) last() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.inputs) == 0 {
		return ""
	}
	return e.inputs[len(e.inputs)-1]
}

// stubCompleter answers every request with content or err.
type stubCompleter struct {
	content string
	err     error
	last    llm.Request
}

func (c *stubCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.content, Model: "stub"}, nil
}

func (c *stubCompleter) Model() string { return "stub" }

var errBoom = errors.New("boom")
