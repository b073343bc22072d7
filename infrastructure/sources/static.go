// Package sources provides the built-in external source implementations
// and the registry and selection policy over them. A source digests the
// assembled context and reports what the work actually cost; the engine
// debits the reported figure, not the advertised one.
package sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/aggregates"
	appErrors "atlas-backend/pkg/errors"
)

const previewLimit = 160

// StaticSource is a deterministic source backed by configuration. It
// hashes the assembled context and answers with a fixed preview and
// relevance. Used as the default source set and heavily in tests.
type StaticSource struct {
	name      string
	relevance float64
	preview   string
	cost      float64
}

// NewStaticSource creates a static source. Cost is what the source
// reports per invocation; a zero cost source is free to consult.
func NewStaticSource(name string, relevance float64, preview string, cost float64) *StaticSource {
	return &StaticSource{
		name:      name,
		relevance: relevance,
		preview:   preview,
		cost:      cost,
	}
}

var _ ports.ExternalSource = (*StaticSource)(nil)

// Name identifies the source
func (s *StaticSource) Name() string {
	return s.name
}

// Invoke digests the assembled context. A sub-budget smaller than the
// source's cost yields an error; the engine debits nothing then.
func (s *StaticSource) Invoke(ctx context.Context, qc *aggregates.QueryContext, subBudget float64) (*aggregates.SourceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if subBudget < s.cost {
		return nil, appErrors.NewExternalError(s.name, errBudgetTooSmall)
	}

	preview := s.preview
	if preview == "" {
		preview = contextPreview(qc)
	}

	return &aggregates.SourceResult{
		ContentHash:    hashContext(qc),
		ContentPreview: preview,
		EnergyCost:     s.cost,
		RelevanceScore: s.relevance,
	}, nil
}

// hashContext digests the context node contents in order
func hashContext(qc *aggregates.QueryContext) string {
	h := sha256.New()
	for _, n := range qc.Nodes {
		h.Write([]byte(n.ID))
		h.Write([]byte{0x1f})
		h.Write([]byte(n.Content))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func contextPreview(qc *aggregates.QueryContext) string {
	var b strings.Builder
	for _, n := range qc.Nodes {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(n.Name)
		if b.Len() >= previewLimit {
			break
		}
	}
	preview := b.String()
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return preview
}
