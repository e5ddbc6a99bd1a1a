// Package searchpath models the executable search path (PATH) as an explicit,
// immutable value.
//
// Provisioning steps never mutate the process environment. Instead a [Path]
// is carried in run state, extended with [Path.Prepend] once a tool's install
// directory is known, and rendered into the environment of each external
// command with [Path.Environ].
package searchpath
