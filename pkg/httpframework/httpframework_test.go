package httpframework

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Run("should initialize router and serve endpoint", func(t *testing.T) {
		ResetForTesting()
		defer ResetForTesting()

		Init("local")
		assert.NotNil(t, router)
		// 2 default middlewares: httplogger, httprecovery
		assert.Len(t, router.Handlers, 2)

		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		ResetForTesting()
		defer ResetForTesting()

		Init("local")
		firstInstance := Instance()

		Init("local", func(c *gin.Context) {})
		secondInstance := Instance()

		assert.Same(t, firstInstance, secondInstance)
		assert.Len(t, secondInstance.Handlers, 2, "Init should not add more middlewares on subsequent calls")
	})
}
