package types

// Version is the canonical project version.
// The CLI, the HTTP API and the exported catalog format share this version.
const Version = "0.3.0"

// CatalogFormatVersion is written into exported catalogs so that loaders can
// reject files produced by an incompatible release.
const CatalogFormatVersion = 1
