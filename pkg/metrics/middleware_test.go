package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinPrometheusMiddleware_UsesRoutePattern(t *testing.T) {
	// Arrange
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/categories/:level/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Act
	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/main/"+id, nil))
	}

	// Assert
	counter := HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/categories/:level/:id", "200")
	assert.Equal(t, float64(3), testutil.ToFloat64(counter))
}

func TestGinPrometheusMiddleware_SkipsHealth(t *testing.T) {
	// Arrange
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-health-test"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Assert
	counter := HttpRequestsTotal.WithLabelValues("metrics-health-test", http.MethodGet, "/health", "200")
	assert.Equal(t, float64(0), testutil.ToFloat64(counter))
}

func TestDynamoTimer_FailIncrementsErrors(t *testing.T) {
	// Arrange
	timer := NewDynamoTimer("metrics-test", DynamoOpUpdate, "Orders")

	// Act
	timer.Fail()
	timer.ObserveDuration()

	// Assert
	assert.Equal(t, float64(1), testutil.ToFloat64(DynamoErrors.WithLabelValues("metrics-test", "update", "Orders")))
}
