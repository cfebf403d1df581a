package semindex

import "strings"

// abbreviationGroups is the fixed Tier-5 expansion table from spec.md's
// Glossary. Each inner slice is a bidirectional synonym group: matching
// any member expands to every other member.
//
// The Glossary's worked example (concrete scenario 1) has search("auth")
// surface a bare "login" definition at Tier 5, which the literal
// abbreviation pairs (auth<->authenticate/authorization) can't reach on
// their own — "login" shares no substring with either expansion. The
// auth group here additionally carries "login"/"signin" so that scenario
// holds; see DESIGN.md's Open Question decisions for the reasoning.
var abbreviationGroups = [][]string{
	{"auth", "authenticate", "authorization", "login", "signin"},
	{"config", "cfg", "configuration"},
	{"db", "database"},
	{"ctx", "context"},
	{"req", "request", "require"},
	{"res", "response", "result"},
	{"err", "error"},
	{"msg", "message"},
	{"usr", "user"},
	{"pwd", "password"},
	{"mgr", "manager"},
	{"ctrl", "controller", "control"},
	{"svc", "service"},
	{"repo", "repository"},
	{"util", "utility"},
	{"lib", "library"},
	{"pkg", "package"},
	{"proc", "process", "processor"},
	{"exec", "execute"},
	{"init", "initialize"},
}

// expandAbbreviations returns every other member of the group(s)
// containing query (case-insensitive), excluding query itself.
func expandAbbreviations(query string) []string {
	nq := strings.ToLower(query)
	var out []string
	seen := map[string]bool{nq: true}
	for _, group := range abbreviationGroups {
		member := false
		for _, t := range group {
			if t == nq {
				member = true
				break
			}
		}
		if !member {
			continue
		}
		for _, t := range group {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
