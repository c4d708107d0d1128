// Package config resolves the options of a sync run and the engine paths it
// touches. Options come from command flags, AGENTKIT_* environment variables
// and an optional config.yaml inside the engine install directory.
package config
