//go:build tools

// Package tools documents the development tools used by this module.
// They are invoked with `go run pkg@version` and are not tracked in go.mod.
package tools

// mockgen - gomock generators for the ports in internal/core
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock/mockgen@v0.6.0 (matches the go.uber.org/mock runtime in go.mod)
//
// golangci-lint - lint suite; nolint directives in the tree target it
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@v2.5.0
