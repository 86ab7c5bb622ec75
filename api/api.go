// Package api holds the OpenAPI document of the HTTP service.
package api

import _ "embed"

// OpenAPI is the raw api/openapi.yml document.
//
//go:embed openapi.yml
var OpenAPI []byte
