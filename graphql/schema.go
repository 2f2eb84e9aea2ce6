// Package graphql holds the read-only inventory schema served at /api/graphql.
package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var Schema string
