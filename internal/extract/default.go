package extract

import (
	"github.com/codecurator/semindex/internal/extract/envfmt"
	"github.com/codecurator/semindex/internal/extract/golang"
	"github.com/codecurator/semindex/internal/extract/jsonfmt"
	"github.com/codecurator/semindex/internal/extract/jsts"
	"github.com/codecurator/semindex/internal/extract/python"
	"github.com/codecurator/semindex/internal/extract/rust"
	"github.com/codecurator/semindex/internal/extract/shell"
	"github.com/codecurator/semindex/internal/extract/swift"
	"github.com/codecurator/semindex/internal/extract/tomlfmt"
	"github.com/codecurator/semindex/internal/extract/yamlfmt"
)

// Default builds the registry in spec.md §4.D's priority order:
// env files and the jsonfmt/tomlfmt framework special cases
// (package.json, tsconfig.json, Cargo.toml) are handled inside those
// extractors themselves rather than as separate earlier entries, since
// they all share the same file-extension predicate as the general
// JSON/TOML case — there is no separate "general JSON extractor" to
// precede. The grammar-backed language extractors and the remaining
// textual formats follow.
func Default() *Registry {
	return NewRegistry(
		envfmt.New(),
		golang.New(),
		jsts.New(),
		python.New(),
		rust.New(),
		swift.New(),
		shell.New(),
		jsonfmt.New(),
		yamlfmt.New(),
		tomlfmt.New(),
	)
}
