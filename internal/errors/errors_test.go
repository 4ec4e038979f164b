package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/middleware"
	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext builds a gin context primed with a logger and a known request
// ID, the way the middleware chain would leave it.
func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/kpis", nil)
	c.Set("logger", logger.New("test"))
	c.Set(middleware.RequestIDKey, "req-fixture")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestNotFoundShapesResponse(t *testing.T) {
	c, w := testContext(t)

	NotFound(c, "property 99 does not exist")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrNotFound, resp.Error.Code)
	assert.Equal(t, "property 99 does not exist", resp.Error.Message)
	assert.Equal(t, "req-fixture", resp.Error.RequestID)
	assert.Nil(t, resp.Error.Details)
}

func TestBadRequestWithAndWithoutDetails(t *testing.T) {
	t.Run("nil details stay omitted", func(t *testing.T) {
		c, w := testContext(t)

		BadRequest(c, "year out of range", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, ErrBadRequest, resp.Error.Code)
		assert.Equal(t, "year out of range", resp.Error.Message)
		assert.Nil(t, resp.Error.Details)
	})

	t.Run("details pass through", func(t *testing.T) {
		c, w := testContext(t)

		BadRequest(c, "year out of range", map[string]interface{}{
			"year": 1492,
			"min":  1950,
		})

		resp := decodeError(t, w)
		assert.EqualValues(t, 1492, resp.Error.Details["year"])
		assert.EqualValues(t, 1950, resp.Error.Details["min"])
		assert.Equal(t, "req-fixture", resp.Error.RequestID)
	})
}

func TestInternalServerErrorHidesCause(t *testing.T) {
	c, w := testContext(t)

	InternalServerError(c, "Failed to compute projections", errors.New("pool exhausted"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrInternalServer, resp.Error.Code)
	assert.Equal(t, "Failed to compute projections", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "pool exhausted", "internal error text must not leak")
}

func TestValidationErrorListsFields(t *testing.T) {
	c, w := testContext(t)

	type request struct {
		Regime string `validate:"required,oneof=lmnp sci_is personal"`
		Year   int    `validate:"required,gte=1950"`
	}

	err := validator.New().Struct(request{Regime: "micro", Year: 1800})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrValidation, resp.Error.Code)
	assert.Equal(t, "Validation failed for one or more fields", resp.Error.Message)
	assert.Contains(t, resp.Error.Details, "Regime")
	assert.Contains(t, resp.Error.Details, "Year")
}

func TestFieldMessagePerTag(t *testing.T) {
	tests := []struct {
		tag   string
		param string
		want  string
	}{
		{"required", "", "This field is required"},
		{"oneof", "lmnp sci_is personal", "Must be one of: lmnp sci_is personal"},
		{"gt", "0", "Must be greater than 0"},
		{"gte", "1950", "Must be greater than or equal to 1950"},
		{"lt", "50", "Must be less than 50"},
		{"lte", "2200", "Must be less than or equal to 2200"},
		{"min", "1", "Value is too short or small (minimum: 1)"},
		{"max", "120", "Value is too long or large (maximum: 120)"},
		{"len", "14", "Must have length of 14"},
		{"email", "", "Must be a valid email address"},
		{"url", "", "Must be a valid URL"},
		{"uuid", "", "Must be a valid UUID"},
		{"startswith", "", "Validation failed for tag: startswith"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := fieldMessage(stubFieldError{tag: tt.tag, param: tt.param})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponsesWorkWithoutMiddlewareContext(t *testing.T) {
	// Raw context: no logger, no request ID. The response must still be
	// complete, just without the request_id field.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/bare", nil)

	NotFound(c, "nothing here")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrNotFound, resp.Error.Code)
	assert.Empty(t, resp.Error.RequestID)
}

func TestErrorCodeValues(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrNotFound)
	assert.Equal(t, "BAD_REQUEST", ErrBadRequest)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", ErrInternalServer)
	assert.Equal(t, "VALIDATION_ERROR", ErrValidation)
	assert.Equal(t, "DATABASE_CONNECTION_ERROR", ErrDatabaseConnection)
}

// stubFieldError satisfies validator.FieldError with just a tag and param.
type stubFieldError struct {
	tag   string
	param string
}

func (s stubFieldError) Tag() string                    { return s.tag }
func (s stubFieldError) ActualTag() string              { return s.tag }
func (s stubFieldError) Param() string                  { return s.param }
func (s stubFieldError) Namespace() string              { return "" }
func (s stubFieldError) StructNamespace() string        { return "" }
func (s stubFieldError) Field() string                  { return "Stub" }
func (s stubFieldError) StructField() string            { return "Stub" }
func (s stubFieldError) Value() interface{}             { return nil }
func (s stubFieldError) Kind() reflect.Kind             { return reflect.String }
func (s stubFieldError) Type() reflect.Type             { return nil }
func (s stubFieldError) Translate(ut.Translator) string { return "" }
func (s stubFieldError) Error() string                  { return "" }
