// Package cli defines the Cobra command tree for the agentkit CLI. Each file
// registers one top-level command with the root command. Commands only parse
// flags and format output; the work happens in internal/linker and
// internal/manifest.
package cli
