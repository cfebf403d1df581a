// Package workflow_scenarios contains MCP workflow testing scenarios and fixtures.
// This package provides comprehensive test coverage for various MCP tool workflows
// including API surface analysis, function analysis, linguistic search, and type discovery.
package workflow_scenarios
