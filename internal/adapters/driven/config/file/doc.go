// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - Config: TOML-based application configuration with env overrides
//   - PromptStore: user-editable prompt files with embedded defaults
package file
