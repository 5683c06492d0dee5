// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.reportdraft.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: editable prompt files with embedded defaults
//   - PromptWatcher: reloads prompts when their files change
package file
