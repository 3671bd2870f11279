package api_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/auth"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/vectorizer"
)

// fakeProvider accepts code "good" with state "state".
type fakeProvider struct{}

func (fakeProvider) AuthURL(context.Context) (string, error) {
	return "https://accounts.example/o/oauth2/auth?state=state", nil
}

func (fakeProvider) Exchange(_ context.Context, code, state string) (*auth.Identity, error) {
	if state != "state" {
		return nil, auth.ErrInvalidState
	}
	if code != "good" {
		return nil, auth.ErrInvalidCode
	}
	return &auth.Identity{Email: "me@example.com", VerifiedEmail: true, RefreshToken: "1//r"}, nil
}

func (fakeProvider) AccessToken(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "access", Expiry: time.Now().Add(time.Hour)}, nil
}

type fakeTransport struct {
	mu   sync.Mutex
	sent int
}

func (f *fakeTransport) Send(context.Context, oauth2.TokenSource, []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	return "msg-1", nil
}

// fakeLLM answers generation calls with a fixed document and records them.
type fakeLLM struct {
	mu       sync.Mutex
	requests []llm.Request
}

const generatedDoc = "Here you go:\n```html\n<!DOCTYPE html><html><body><a href=\"https://x.example\">X</a></body></html>\n```\n" +
	"<!-- SUBJECT: Spring sale -->"

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &llm.Response{Content: generatedDoc, Model: "gpt-4o-mini"}, nil
}

func (f *fakeLLM) Model() string { return "gpt-4o-mini" }

func (f *fakeLLM) last() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type constEmbedder struct{}

func (constEmbedder) ToVector(context.Context, string) (vectorizer.Vector, error) {
	return vectorizer.Vector{1, 0}, nil
}

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]templates.Template
	embed  map[int64]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]templates.Template{}, embed: map[int64]bool{}}
}

func (r *memoryRepo) Insert(_ context.Context, tpl templates.NewTemplate, v vectorizer.Vector) (*templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	row := templates.Template{
		ID: r.nextID, Subject: tpl.Subject, Description: tpl.Description, TemplateCode: tpl.TemplateCode,
		Category: tpl.Category, Visibility: tpl.Visibility, Sender: tpl.Sender, CreatedAt: time.Now(),
	}
	r.rows[row.ID] = row
	r.embed[row.ID] = len(v) > 0
	return &row, nil
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

func (r *memoryRepo) all(limit int) []templates.Template {
	out := make([]templates.Template, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memoryRepo) List(_ context.Context, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(limit), nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *memoryRepo) SearchKeyword(_ context.Context, _ string, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(limit), nil
}

func (r *memoryRepo) SearchSemantic(_ context.Context, _ vectorizer.Vector, limit int) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(limit), nil
}

func (r *memoryRepo) ListMissingEmbeddings(context.Context) ([]templates.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []templates.Template
	for id, ok := range r.embed {
		if !ok {
			out = append(out, r.rows[id])
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateEmbedding(_ context.Context, id int64, _ vectorizer.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embed[id] = true
	return nil
}
