package templates

import "sort"

// Reciprocal rank fusion defaults.
const (
	DefaultRRFK           = 60
	DefaultKeywordWeight  = 1.0
	DefaultSemanticWeight = 1.0
)

// FusionConfig tunes reciprocal rank fusion.
type FusionConfig struct {
	K              int     `env:"RAG_RRF_K" envDefault:"60"`
	KeywordWeight  float64 `env:"RAG_KEYWORD_WEIGHT" envDefault:"1.0"`
	SemanticWeight float64 `env:"RAG_SEMANTIC_WEIGHT" envDefault:"1.0"`
}

func defaultFusion() FusionConfig {
	return FusionConfig{K: DefaultRRFK, KeywordWeight: DefaultKeywordWeight, SemanticWeight: DefaultSemanticWeight}
}

// Fuse merges two rankings. Each row scores the sum of weight/(k+rank) over the
// rankings it appears in, with 1-based ranks. The fused score replaces
// Similarity. Ties keep first-seen order, keyword results first.
func Fuse(keyword, semantic []Template, cfg FusionConfig, limit int) []Template {
	if cfg.K <= 0 {
		cfg.K = DefaultRRFK
	}

	type entry struct {
		tpl   Template
		score float64
		order int
	}
	byID := make(map[int64]*entry, len(keyword)+len(semantic))
	var entries []*entry

	add := func(list []Template, weight float64) {
		for i, tpl := range list {
			score := weight / float64(cfg.K+i+1)
			if e, ok := byID[tpl.ID]; ok {
				e.score += score
				if e.tpl.TemplateCode == "" {
					e.tpl = tpl
				}
				continue
			}
			e := &entry{tpl: tpl, score: score, order: len(entries)}
			byID[tpl.ID] = e
			entries = append(entries, e)
		}
	}
	add(keyword, cfg.KeywordWeight)
	add(semantic, cfg.SemanticWeight)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].order < entries[j].order
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]Template, len(entries))
	for i, e := range entries {
		score := e.score
		out[i] = e.tpl
		out[i].Similarity = &score
	}
	return out
}
