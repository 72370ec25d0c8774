package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML corpora.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise strips tags and returns one paragraph per block element.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}
	return stripHTML(string(raw.Content)), nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag          = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag           = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag        = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag            = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag             = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments       = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements      = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|ul|ol|table|blockquote|pre|section|article|header|footer|hr)\b[^>]*>`)
	lineElements       = regexp.MustCompile(`(?i)<br\s*/?>|</(li|tr)>`)
	allTags            = regexp.MustCompile(`<[^>]+>`)
	multiSpaces        = regexp.MustCompile(`[ \t]+`)
	paragraphSeparator = regexp.MustCompile(`\n[ \t]*\n`)
)

// stripHTML removes markup and returns readable text in which every block
// element is its own paragraph and line breaks inside a block survive.
func stripHTML(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	// Remove script, style, noscript, head, and svg tags entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Source newlines are layout, not structure
	content = strings.ReplaceAll(content, "\n", " ")

	content = blockElements.ReplaceAllString(content, "\n\n")
	content = lineElements.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	var paragraphs []string
	for _, block := range paragraphSeparator.Split(content, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
