// Package schemas embeds the JSON Schemas used to validate oge input files.
package schemas

import _ "embed"

// CatalogSchemaJSON is the schema for the task catalog (tasks.json / tasks.yaml).
//
//go:embed catalog.schema.json
var CatalogSchemaJSON string
