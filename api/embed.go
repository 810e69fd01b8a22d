// Package api holds the OpenAPI document of the storefront HTTP server.
package api

import _ "embed"

// OpenAPI is the storefront's OpenAPI 3 document in YAML.
//
//go:embed openapi.yaml
var OpenAPI []byte
