// Package gql exposes users, posts, tags and uploads over a single
// GraphQL endpoint.
package gql

import (
	_ "embed"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var sdl string

// SDL returns the schema definition served by the API.
func SDL() string {
	return sdl
}

// NewSchema parses the schema against the resolver. It fails when a field
// has no matching resolver method.
func NewSchema(resolver *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(sdl, resolver, graphql.MaxParallelism(20))
}

func Handler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
