package tomlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecurator/semindex/internal/curatortypes"
)

const cargoSample = `[package]
name = "widget"
version = "0.1.0"

[dependencies]
serde = "1.0"
`

func TestExtractCargoTomlIndexesDependenciesAsImports(t *testing.T) {
	res, err := New().Extract("Cargo.toml", []byte(cargoSample))
	require.NoError(t, err)

	var sawDep bool
	for _, d := range res.Definitions {
		if d.Term == "serde" && d.Kind == curatortypes.KindImport {
			sawDep = true
		}
	}
	assert.True(t, sawDep)

	var sawRef bool
	for _, r := range res.References {
		if r.TargetTerm == "serde" && r.RefKind == curatortypes.RefImport {
			sawRef = true
		}
	}
	assert.True(t, sawRef)
}

func TestExtractTomlTableHeadersAndKeys(t *testing.T) {
	res, err := New().Extract("app.toml", []byte(cargoSample))
	require.NoError(t, err)

	var sawTable, sawKey bool
	for _, d := range res.Definitions {
		if d.Term == "package" && d.Kind == curatortypes.KindClass {
			sawTable = true
		}
		if d.Term == "package.name" && d.Kind == curatortypes.KindVariable {
			sawKey = true
		}
	}
	assert.True(t, sawTable)
	assert.True(t, sawKey)
}
