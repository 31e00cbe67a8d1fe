// Package file provides the file-based driven.ConfigStore.
// Configuration is a TOML document; nested tables are exposed as
// dot-notation keys ("loader.batch_size") and written back as tables.
package file
