// Package provisioning provides the shared types and the orchestration loop
// for bootstrapping a project environment.
//
// # Subpackages
//
//   - preflight: platform detection and manifest location
//   - toolchain: EnsureTool, package manager install, auxiliary tool check
//   - tasks: manifest-guarded steps, base dependency install, chained tasks
//   - verify: runtime package verification
//
// # Core Types
//
// Context carries configuration, run state, the command runner and the observer.
// Phase defines a provisioning step with Name() and Provision() methods; Step
// builds a Phase from optional pre/postcondition checks and an action.
// State accumulates results: platform, search path, tool outcomes, package
// check result and one StepResult per executed phase.
package provisioning
