// Package envfmt extracts Definitions from .env / .env.* files, per
// spec.md §4.E: variables with a category attribute (db/auth/api/url/
// port/other) derived from name, and — per the universal contract —
// sensitive values (name matches /(password|secret|token|key|auth)/i)
// indexed with term masked to "length + hash" while context preserves
// the raw line.
package envfmt

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

var (
	assignRe = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
	// sensitiveRe drives masking, matching spec.md §4.E's universal
	// contract pattern exactly: /(password|secret|token|key|auth)/i.
	sensitiveRe = regexp.MustCompile(`(?i)(password|secret|token|key|auth)`)
	// categoryAuthRe drives the narrower "auth" category classification
	// — deliberately excludes bare "key", so a name like API_KEY falls
	// through to the "api" category instead of "auth" even though its
	// value is still masked by sensitiveRe above.
	categoryAuthRe = regexp.MustCompile(`(?i)(password|secret|token|auth)`)
	dbRe           = regexp.MustCompile(`(?i)(db|database|postgres|mysql|mongo|redis)`)
	apiRe          = regexp.MustCompile(`(?i)api`)
	urlRe          = regexp.MustCompile(`(?i)(url|uri|host|endpoint)`)
	portRe         = regexp.MustCompile(`(?i)port`)
)

// Extractor implements extract.Extractor for .env-style files.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string { return "envfmt" }

func (Extractor) Matches(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return base == ".env" || strings.HasPrefix(base, ".env.")
}

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	lines := strings.Split(string(content), "\n")

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		m := assignRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, value := m[1], strings.Trim(m[2], `"'`)

		term := value
		attrs := map[string]string{"category": category(name)}
		if sensitiveRe.MatchString(name) {
			term = maskValue(value)
			attrs["masked"] = "true"
		}

		res.Definitions = append(res.Definitions, curatortypes.Definition{
			Term:       name,
			Kind:       curatortypes.KindVariable,
			Location:   curatortypes.Location{File: path, Line: i + 1},
			Context:    line,
			Language:   "env",
			Attributes: attrs,
		})
		if term != "" {
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:       term,
				Kind:       curatortypes.KindString,
				Location:   curatortypes.Location{File: path, Line: i + 1},
				Context:    line,
				Language:   "env",
				Attributes: attrs,
			})
		}
	}
	return res, nil
}

// category derives spec.md's db/auth/api/url/port/other classification
// from a variable's name.
func category(name string) string {
	switch {
	case categoryAuthRe.MatchString(name):
		return "auth"
	case dbRe.MatchString(name):
		return "db"
	case apiRe.MatchString(name):
		return "api"
	case urlRe.MatchString(name):
		return "url"
	case portRe.MatchString(name):
		return "port"
	default:
		return "other"
	}
}

// maskValue returns the "length + hash" masked form spec.md §4.E's
// universal contract requires for sensitive values.
func maskValue(value string) string {
	sum := xxhash.Sum64String(value)
	return fmt.Sprintf("***%d:%016x", len(value), sum)
}
