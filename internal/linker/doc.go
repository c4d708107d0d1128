// Package linker runs one sync end to end. It detects the project's overlay,
// resolves the engine version, renders every enabled target into staging and
// hands the result to the diff or apply engine.
package linker
