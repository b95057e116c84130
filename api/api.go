// Package api holds the OpenAPI contract of the turing HTTP server.
package api

import _ "embed"

// Spec is the OpenAPI 3 document served at /openapi.yaml and used to validate requests.
//
//go:embed openapi.yaml
var Spec []byte
