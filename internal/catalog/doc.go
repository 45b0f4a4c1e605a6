// Package catalog stores metadata for completed asset generations in a
// SQLite database. The daemon registers the store as the pipeline's
// completion hook so every finished run leaves a durable record behind,
// independent of the in-memory pipeline retention window.
package catalog
