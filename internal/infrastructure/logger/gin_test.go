package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("level follows status", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)

		router := gin.New()
		router.Use(AccessLog(zap.New(core), WithQuietPaths("/health")))
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
		router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		for _, path := range []string{"/ok", "/health", "/missing", "/broken"} {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		logs := recorded.FilterMessage(accessLogMsg).All()
		require.Len(t, logs, 4)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
		assert.Equal(t, zapcore.DebugLevel, logs[1].Level)
		assert.Equal(t, zapcore.WarnLevel, logs[2].Level)
		assert.Equal(t, zapcore.ErrorLevel, logs[3].Level)
	})

	t.Run("quiet path is skipped at info", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(AccessLog(zap.New(core), WithQuietPaths("/health")))
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Zero(t, recorded.Len())
	})

	t.Run("request context carries the request logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-42")
			c.Next()
		})
		router.Use(AccessLog(zap.New(core)))
		router.GET("/svc", func(c *gin.Context) {
			assert.Equal(t, "req-42", RequestID(c.Request.Context()))
			For(c.Request.Context(), nil).Info("from service")
			Request(c).Info("from handler")
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/svc?page=2", nil))

		for _, msg := range []string{"from service", "from handler", accessLogMsg} {
			entries := recorded.FilterMessage(msg).All()
			require.Len(t, entries, 1, msg)
			assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"], msg)
		}
		assert.Equal(t, "page=2", recorded.FilterMessage(accessLogMsg).All()[0].ContextMap()["query"])
	})
}

func TestRecover(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("default response", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(Recover(zap.New(core), nil))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entries := recorded.FilterMessage("Panic recovered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	})

	t.Run("custom response", func(t *testing.T) {
		router := gin.New()
		router.Use(Recover(zap.NewNop(), func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"code": "ERR_INTERNAL"})
		}))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"code":"ERR_INTERNAL"}`, w.Body.String())
	})
}

func TestRequest_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, Request(c))
}
