// Package file provides the file-backed configuration store.
//
// The format follows the file extension: .yaml and .yml files are read
// and written as YAML, anything else as TOML. Nested tables are exposed
// as dot-notation keys ("llm.model").
package file
