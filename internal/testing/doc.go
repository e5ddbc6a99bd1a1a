// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - FakeRunner: Scripted shell.Runner recording every command
//   - MockInstaller: testify mock for the install-script runner
//   - RecordingObserver: Observer keeping every event
//   - Workspace: temporary project directory with a manifest and a bin dir
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithTasks("setup-r").
//	    WithPackages("knitr").
//	    Build()
//
//	runner := testing.NewFakeRunner().
//	    On("pixi run setup-r", testing.Response{Code: 2})
package testing
