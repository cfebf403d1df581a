// Package yamlfmt extracts Definitions from YAML documents
// (.yaml .yml), per spec.md §4.E: keys as variables, with file-context
// heuristics (docker-compose services, GitHub Actions steps,
// Kubernetes kinds, GitLab CI jobs, Ansible tasks) labeling entries
// with attributes.context_kind.
package yamlfmt

import (
	"bytes"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

// Extractor implements extract.Extractor for YAML documents, using
// gopkg.in/yaml.v3 (already an indirect teacher dependency) for real
// key/value and document structure instead of indentation-counting.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string             { return "yamlfmt" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".yaml", ".yml")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	contextKind := detectContextKind(path, content)

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			break
		}
		walk(&node, "", path, content, contextKind, &res)
	}
	return res, nil
}

func walk(node *yaml.Node, keyPath, path string, content []byte, contextKind string, res *extract.Result) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode:
		for _, c := range node.Content {
			walk(c, keyPath, path, content, contextKind, res)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			full := keyNode.Value
			if keyPath != "" {
				full = keyPath + "." + keyNode.Value
			}
			attrs := map[string]string{}
			if contextKind != "" {
				attrs["context_kind"] = contextKind
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: keyNode.Value, Kind: curatortypes.KindVariable,
				Location:   curatortypes.Location{File: path, Line: keyNode.Line, Column: keyNode.Column - 1},
				Context:    contextLine(content, keyNode.Line),
				Language:   "yaml",
				Attributes: attrs,
			})
			walk(valNode, full, path, content, contextKind, res)
		}
	case yaml.SequenceNode:
		for _, c := range node.Content {
			walk(c, keyPath, path, content, contextKind, res)
		}
	case yaml.ScalarNode:
		if node.Tag == "!!str" && node.Value != "" {
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: node.Value, Kind: curatortypes.KindString,
				Location: curatortypes.Location{File: path, Line: node.Line, Column: node.Column - 1},
				Context:  contextLine(content, node.Line), Language: "yaml",
			})
		}
	}
}

// detectContextKind classifies a YAML file by filename/shape so keys
// can be labeled with the framework they belong to, per spec.md's
// named heuristics.
func detectContextKind(path string, content []byte) string {
	base := strings.ToLower(filepath.Base(path))
	text := string(content)
	switch {
	case base == "docker-compose.yml" || base == "docker-compose.yaml" || strings.Contains(text, "\nservices:"):
		return "docker-compose"
	case strings.Contains(path, ".github/workflows/"):
		return "github_actions"
	case strings.Contains(text, "apiVersion:") && strings.Contains(text, "kind:"):
		return "kubernetes"
	case base == ".gitlab-ci.yml" || strings.Contains(text, "\nstages:"):
		return "gitlab_ci"
	case strings.Contains(text, "\nhosts:") && strings.Contains(text, "\ntasks:"):
		return "ansible"
	default:
		return ""
	}
}

func contextLine(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
