package router_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ppoeval/internal/config"
	"ppoeval/internal/domain"
	"ppoeval/internal/extractor"
	"ppoeval/internal/handler"
	"ppoeval/internal/port"
	"ppoeval/internal/reference"
	"ppoeval/internal/router"
	"ppoeval/internal/service"
	"ppoeval/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine *gin.Engine
	source *mocks.MockReferenceSource
	eval   *mocks.MockEvaluator
}

func newFixture() *fixture {
	src := new(mocks.MockReferenceSource)
	eval := new(mocks.MockEvaluator)
	ext := extractor.New()
	loader := reference.NewLoader(src, ext, nil, false)
	svc := service.NewEvaluationService(loader, ext, eval, nil, service.EvaluationOptions{})

	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyMB: 5},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	engine := router.Setup(cfg, handler.NewEvaluationHandler(svc), handler.NewHealthHandler(src, true))
	return &fixture{engine: engine, source: src, eval: eval}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_EvaluationEndToEnd(t *testing.T) {
	for _, path := range router.EvaluationPaths {
		t.Run(path, func(t *testing.T) {
			f := newFixture()
			f.source.On("Read", mock.Anything, mock.Anything).Return(nil, domain.ErrReferenceNotFound)

			var prompt string
			f.eval.On("Evaluate", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { prompt = args.Get(1).(port.EvaluateInput).Prompt }).
				Return(&port.EvaluateOutput{Text: "<h2>Dictamen final</h2>", ModelUsed: "gemini-1.5-flash"}, nil).Once()

			body := fmt.Sprintf(`{"archivo":%q,"nombre":"x.txt","c1":8,"c2":7,"c3":9}`,
				base64.StdEncoding.EncodeToString([]byte("Proyecto X")))
			w := f.do(http.MethodPost, path, body)

			require.Equal(t, http.StatusOK, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "<h2>Dictamen final</h2>", resp["mensaje"])
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			assert.Contains(t, prompt, "Proyecto X")
			assert.Contains(t, prompt, "8")
			assert.Contains(t, prompt, "7")
			assert.Contains(t, prompt, "9")
			assert.Contains(t, prompt, "No se proporcionó documento de antecedente.")
			f.source.AssertNumberOfCalls(t, "Read", len(domain.AllReferenceRoles))
		})
	}
}

func TestRouter_MissingArchivo_NoModelCall(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/gemini", `{"nombre":"x.txt","c1":8}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Falta el archivo PPO"}`, w.Body.String())
	f.eval.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
	f.source.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}

func TestRouter_NonPostMethods_Return405WithoutReadingReferences(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			f := newFixture()

			w := f.do(method, "/api/gemini", "")

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
			f.source.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
			f.eval.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
		})
	}
}

func TestRouter_ModelFailure_Returns500WithDetail(t *testing.T) {
	f := newFixture()
	f.source.On("Read", mock.Anything, mock.Anything).Return(nil, domain.ErrReferenceNotFound)
	f.eval.On("Evaluate", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: gemini API error (status 503): overloaded", domain.ErrUpstreamService))

	body := fmt.Sprintf(`{"archivo":%q,"nombre":"x.txt"}`, base64.StdEncoding.EncodeToString([]byte("x")))
	w := f.do(http.MethodPost, "/api/gemini", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error interno del servidor", resp.Error)
	assert.Contains(t, resp.Detalle, "overloaded")
}

func TestRouter_Preflight(t *testing.T) {
	f := newFixture()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/gemini", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Health(t *testing.T) {
	f := newFixture()
	f.source.On("Ping", mock.Anything).Return(nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)
}

func TestRouter_UnknownPath(t *testing.T) {
	f := newFixture()
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/otra-cosa", "{}").Code)
}
