package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

// stubNormaliser returns a fixed output so dispatch can be observed.
type stubNormaliser struct {
	mimeTypes []string
	priority  int
	output    string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (string, error) {
	return s.output, nil
}

func TestRegistry_PicksHighestPriority(t *testing.T) {
	fallback := &stubNormaliser{mimeTypes: []string{"text/markdown", "text/plain"}, priority: 5, output: "fallback"}
	specific := &stubNormaliser{mimeTypes: []string{"text/markdown"}, priority: 50, output: "markdown"}

	tests := []struct {
		name  string
		order []*stubNormaliser
	}{
		{name: "fallback registered first", order: []*stubNormaliser{fallback, specific}},
		{name: "specific registered first", order: []*stubNormaliser{specific, fallback}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, n := range tt.order {
				r.Register(n)
			}

			text, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/markdown"})
			require.NoError(t, err)
			assert.Equal(t, "markdown", text)

			text, err = r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
			require.NoError(t, err)
			assert.Equal(t, "fallback", text)
		})
	}
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewRegistry(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "application/zip"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilDocument(t *testing.T) {
	_, err := NewRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewRegistry(
		&stubNormaliser{mimeTypes: []string{"text/plain", "text/html"}},
		&stubNormaliser{mimeTypes: []string{"application/pdf", "text/plain"}},
	)

	assert.Equal(t, []string{"application/pdf", "text/html", "text/plain"}, r.SupportedMIMETypes())
}
