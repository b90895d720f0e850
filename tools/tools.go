//go:build tools
// +build tools

// Package tools pins development tool dependencies in go.mod.
//
// mockgen regenerates internal/mocks:
//
//	go generate ./internal/mocks
//
// Air - Live reload for Go apps (installed globally, not tracked here)
//
//	Install: go install github.com/air-verse/air@v1.63.0
//	Docs: https://github.com/air-verse/air
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
