package extract

import (
	"regexp"
	"strings"
)

// ArtifactDetector reports whether text is unrendered template source.
type ArtifactDetector func(string) bool

// TemplateTokens is the maintained list of template expressions seen in the
// carrier's activity widget when interpolation did not run. Update it when
// the portal markup changes.
var TemplateTokens = []string{
	`\bDato\.`,
	`\bvalor\.`,
	`\bdat\[\d+\]`,
	`\bNgui\b`,
	`\bNumeroGuia\b`,
	`\bComentarios\b`,
	`\bdescripcion\b`,
	`\bfecha\b`,
	`\bhora\b`,
}

// NewArtifactDetector compiles tokens into a case-insensitive detector. Any
// text containing '+' is also flagged, as left-over string concatenation.
func NewArtifactDetector(tokens []string) ArtifactDetector {
	var re *regexp.Regexp
	if len(tokens) > 0 {
		re = regexp.MustCompile(`(?i)(?:` + strings.Join(tokens, "|") + `)`)
	}
	return func(s string) bool {
		if s == "" {
			return false
		}
		if strings.Contains(s, "+") {
			return true
		}
		return re != nil && re.MatchString(s)
	}
}

// LooksLikeTemplate is the detector built from TemplateTokens.
var LooksLikeTemplate = NewArtifactDetector(TemplateTokens)
