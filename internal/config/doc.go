// Package config defines the provisioning configuration and how it is loaded.
//
// A [Config] names the package manager and its installer, the manifest file
// that marks the repository root, the ordered chained tasks, the runtime used
// to verify packages and the auxiliary tool confirmed at the end of a run.
// [Default] reproduces the stock bootstrap (pixi, pixi.toml, Rscript, quarto);
// [Load] layers an optional provisionr.yaml and PROVISIONR_* environment
// variables on top of it.
package config
