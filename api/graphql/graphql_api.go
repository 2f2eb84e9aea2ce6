package graphql

import (
	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"inventory.GO/api"
	"inventory.GO/graphqlserver"
)

func init() {
	api.RegisterModule(RegisterGraphQLRoutes)
}

// RegisterGraphQLRoutes mounts POST /api/graphql behind the /api auth middleware.
func RegisterGraphQLRoutes(apiGroup *echo.Group, deps *api.Deps) {
	schema, err := graphqlserver.NewSchema(deps.DB)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	RegisterGraphQLRoutesWithSchema(apiGroup, schema)
}

// RegisterGraphQLRoutesWithSchema registers /graphql with a prepared schema.
func RegisterGraphQLRoutesWithSchema(apiGroup *echo.Group, schema *graphql.Schema) {
	apiGroup.POST("/graphql", echo.WrapHandler(graphqlserver.Handler(schema)))
}
