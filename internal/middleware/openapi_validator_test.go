package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ufscompras/api"
	"ufscompras/internal/testutil"
)

func loadDoc(t *testing.T) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	require.NoError(t, err, "Failed to load OpenAPI spec")
	require.NoError(t, doc.Validate(loader.Context), "OpenAPI spec validation failed")
	return doc
}

func TestOpenAPISpecIsValid(t *testing.T) {
	doc := loadDoc(t)

	assert.Equal(t, "UFSCompras Storefront API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
}

func TestAllRoutesAreDocumentedInOpenAPI(t *testing.T) {
	doc := loadDoc(t)

	implementedRoutes := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/health/ready"},
		{"GET", "/api/categories"},
		{"GET", "/api/categories/{slug}"},
		{"GET", "/api/products"},
		{"GET", "/api/products/featured"},
		{"GET", "/api/products/{id}"},
		{"GET", "/api/accessories"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/purchase"},
	}

	assert.Len(t, doc.Paths.Map(), len(implementedRoutes))

	for _, route := range implementedRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			pathItem := doc.Paths.Find(route.path)
			require.NotNil(t, pathItem, "Path not found in OpenAPI spec: %s", route.path)

			operation := pathItem.GetOperation(route.method)
			require.NotNil(t, operation, "Operation not found in OpenAPI spec: %s %s", route.method, route.path)

			assert.NotEmpty(t, operation.OperationID, "OperationID should be set")
			assert.NotEmpty(t, operation.Tags, "Tags should be set")
		})
	}
}

func TestOpenAPIPurchaseRequiresBearer(t *testing.T) {
	doc := loadDoc(t)

	require.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
	assert.Equal(t, "bearer", doc.Components.SecuritySchemes["bearerAuth"].Value.Scheme)

	operation := doc.Paths.Find("/api/purchase").Post
	require.NotNil(t, operation.Security)
	_, ok := (*operation.Security)[0]["bearerAuth"]
	assert.True(t, ok)
}

func TestShouldSkipPath(t *testing.T) {
	skipPaths := []string{"/metrics", "/static/"}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/metrics", true},
		{"/metrics/extra", true},
		{"/metricsfoo", false},
		{"/static/index.html", true},
		{"/api/products", false},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldSkipPath(tt.path, skipPaths))
		})
	}
}

func validatedHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return OpenAPIValidator(DefaultOpenAPIValidatorConfig(api.OpenAPI))(next), &called
}

func TestOpenAPIValidator_AcceptsValidRequests(t *testing.T) {
	handler, called := validatedHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/purchase", map[string]any{
		"productId":   "prod-shirt",
		"quantity":    2,
		"accessories": []string{},
	})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.True(t, *called)
}

func TestOpenAPIValidator_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		path string
		body any
	}{
		{"zero quantity", "/api/purchase", map[string]any{"productId": "p", "quantity": 0}},
		{"missing product", "/api/purchase", map[string]any{"quantity": 1}},
		{"missing password", "/api/auth/login", map[string]any{"email": "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, called := validatedHandler(t)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, testutil.NewJSONRequest(t, http.MethodPost, tt.path, tt.body))

			testutil.AssertJSONError(t, w, http.StatusBadRequest, "Requisição inválida")
			assert.False(t, *called)
		})
	}
}

func TestOpenAPIValidator_RejectsInvalidQuery(t *testing.T) {
	handler, called := validatedHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/featured?limit=abc", nil))

	testutil.AssertStatusCode(t, w, http.StatusBadRequest)
	assert.False(t, *called)
}

func TestOpenAPIValidator_PassesThroughUnknownAndSkippedPaths(t *testing.T) {
	for _, path := range []string{"/metrics", "/not-documented"} {
		handler, called := validatedHandler(t)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.True(t, *called, path)
	}
}

func TestOpenAPIMiddlewareWithInvalidSpec(t *testing.T) {
	config := &OpenAPIValidatorConfig{
		Enabled: true,
		Spec:    []byte("openapi: [broken"),
	}

	handler := OpenAPIValidator(config)(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader("{}")))

	testutil.AssertStatusCode(t, w, http.StatusOK)
}

func TestOpenAPIMiddlewareDisabled(t *testing.T) {
	handler := OpenAPIValidator(&OpenAPIValidatorConfig{Enabled: false})(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader("{}")))

	testutil.AssertStatusCode(t, w, http.StatusOK)
}
