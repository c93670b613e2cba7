package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ppoeval/internal/handler"
	"ppoeval/mocks"
)

func runHealth(f func(*gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	f(c)
	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(new(mocks.MockReferenceSource), false)
	w := runHealth(h.Liveness)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	src := new(mocks.MockReferenceSource)
	src.On("Ping", mock.Anything).Return(nil)

	w := runHealth(handler.NewHealthHandler(src, true).Readiness)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealthHandler_Readiness_NoCredential(t *testing.T) {
	src := new(mocks.MockReferenceSource)

	w := runHealth(handler.NewHealthHandler(src, false).Readiness)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "API key")
	src.AssertNotCalled(t, "Ping", mock.Anything)
}

func TestHealthHandler_Readiness_SourceDown(t *testing.T) {
	src := new(mocks.MockReferenceSource)
	src.On("Ping", mock.Anything).Return(errors.New("stat data: no such file"))

	w := runHealth(handler.NewHealthHandler(src, true).Readiness)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "reference documents")
}
