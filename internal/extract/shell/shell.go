// Package shell extracts Definitions and CrossReferences from shell
// scripts (.sh .bash .zsh .fish, or a recognized shebang), per
// spec.md §4.E: functions, exported vars, aliases, trap, getopts-style
// options as refs. Line-scan based, like the teacher's other textual
// formats — shell has no grammar package in the retrieval pack.
package shell

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

var (
	funcKeywordRe = regexp.MustCompile(`^\s*function\s+([A-Za-z_][\w]*)\s*(?:\(\s*\))?\s*\{?`)
	funcPosixRe   = regexp.MustCompile(`^\s*([A-Za-z_][\w]*)\s*\(\s*\)\s*\{?`)
	exportRe      = regexp.MustCompile(`^\s*export\s+([A-Za-z_][\w]*)=?`)
	aliasRe       = regexp.MustCompile(`^\s*alias\s+([A-Za-z_][\w.-]*)=`)
	trapRe        = regexp.MustCompile(`^\s*trap\s+\S+\s+([A-Za-z]+)`)
	getoptsRe     = regexp.MustCompile(`^\s*(?:while\s+)?getopts\s+"?([A-Za-z:]+)"?\s+(\w+)`)
	shebangRe     = regexp.MustCompile(`^#!.*\b(bash|sh|zsh|fish)\b`)
)

// Extractor implements extract.Extractor for shell scripts.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string { return "shell" }

func (Extractor) Matches(path string) bool {
	if extract.ExtMatcher(".sh", ".bash", ".zsh", ".fish")(path) {
		return true
	}
	return false
}

// MatchesShebang reports whether content's first line names a
// recognized shell, for extensionless scripts. Callers that can read
// content before dispatch (the registry) should use this alongside
// Matches.
func MatchesShebang(content []byte) bool {
	firstLine, _, _ := bytes.Cut(content, []byte("\n"))
	return shebangRe.Match(firstLine)
}

// MatchesContent implements extract.ContentMatcher so Registry.ForContent
// routes extensionless shebang scripts here per spec.md:115.
func (Extractor) MatchesContent(content []byte) bool {
	return MatchesShebang(content)
}

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := funcKeywordRe.FindStringSubmatch(line); m != nil {
			res.Definitions = append(res.Definitions, def(path, lineNo, line, m[1], curatortypes.KindFunction, nil))
			continue
		}
		if m := funcPosixRe.FindStringSubmatch(line); m != nil {
			res.Definitions = append(res.Definitions, def(path, lineNo, line, m[1], curatortypes.KindFunction, nil))
			continue
		}
		if m := exportRe.FindStringSubmatch(line); m != nil {
			res.Definitions = append(res.Definitions, def(path, lineNo, line, m[1], curatortypes.KindVariable,
				map[string]string{"exported": "true"}))
			continue
		}
		if m := aliasRe.FindStringSubmatch(line); m != nil {
			res.Definitions = append(res.Definitions, def(path, lineNo, line, m[1], curatortypes.KindVariable,
				map[string]string{"construct": "alias"}))
			continue
		}
		if m := trapRe.FindStringSubmatch(line); m != nil {
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: m[1], RefKind: curatortypes.RefCall,
				From: curatortypes.Location{File: path, Line: lineNo}, Context: line,
			})
			continue
		}
		if m := getoptsRe.FindStringSubmatch(line); m != nil {
			for _, opt := range strings.Split(m[1], "") {
				if opt == ":" {
					continue
				}
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: "-" + opt, RefKind: curatortypes.RefTypeReference,
					From: curatortypes.Location{File: path, Line: lineNo}, Context: line,
				})
			}
		}
	}
	return res, nil
}

func def(path string, line int, context, term string, kind curatortypes.Kind, attrs map[string]string) curatortypes.Definition {
	return curatortypes.Definition{
		Term:       term,
		Kind:       kind,
		Location:   curatortypes.Location{File: path, Line: line, Column: strings.Index(context, term)},
		Context:    context,
		Language:   "shell",
		Attributes: attrs,
	}
}
