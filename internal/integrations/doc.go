// Package integrations renders the engine's templates into a staging tree for
// each enabled render target (claude, cursor, copilot and the rest). Rendering
// substitutes template variables, strips shell metacharacters from values and
// stamps every text output with a generated-file header.
package integrations
