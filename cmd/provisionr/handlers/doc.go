// Package handlers implements the business logic for CLI commands.
//
// Handlers load configuration, assemble the provisioning pipeline and render
// its outcome. Collaborators are created through package-level factory
// variables so tests can replace them.
package handlers
