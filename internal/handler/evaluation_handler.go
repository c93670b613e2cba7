package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ppoeval/internal/domain"
	"ppoeval/internal/middleware"
	"ppoeval/internal/service"
)

// EvaluationRequestBody is the JSON body accepted by the evaluation endpoints.
type EvaluationRequestBody struct {
	Archivo          string       `json:"archivo"`
	Nombre           string       `json:"nombre"`
	TipoMime         string       `json:"tipoMime"`
	ArchivoAntBase64 string       `json:"archivoAntBase64"`
	NombreAnt        string       `json:"nombreAnt"`
	TipoMimeAnt      string       `json:"tipoMimeAnt"`
	C1               domain.Score `json:"c1"`
	C2               domain.Score `json:"c2"`
	C3               domain.Score `json:"c3"`
	EmailDestino     string       `json:"emailDestino" binding:"omitempty,email"`
}

// EvaluationHandler handles PPO evaluation requests.
type EvaluationHandler struct {
	evaluationService service.EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evaluationService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Evaluate handles POST /api/gemini, /.netlify/functions/gemini and /api/v1/evaluaciones.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	req, err := bindEvaluationRequest(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	report, err := h.evaluationService.Evaluate(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, EvaluationResponse{Mensaje: report.Text})
}

// MethodNotAllowed answers any non-POST method on the evaluation routes.
func (h *EvaluationHandler) MethodNotAllowed(c *gin.Context) {
	HandleError(c, domain.ErrMethodNotAllowed)
}

func bindEvaluationRequest(c *gin.Context) (*domain.EvaluationRequest, error) {
	var body EvaluationRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrPayloadTooLarge
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequestBody, err)
	}

	if strings.TrimSpace(body.Archivo) == "" {
		return nil, domain.ErrMissingUpload
	}

	ppoBytes, ppoMIME, err := decodeUpload(body.Archivo)
	if err != nil {
		return nil, err
	}
	if body.TipoMime == "" {
		body.TipoMime = ppoMIME
	}

	req := &domain.EvaluationRequest{
		RequestID: c.GetString(middleware.ContextKeyRequestID),
		PPO: domain.UploadedDocument{
			Bytes:    ppoBytes,
			Name:     body.Nombre,
			MIMEType: body.TipoMime,
		},
		Scores: domain.EvaluationScores{
			Clarity:     body.C1,
			Feasibility: body.C2,
			Compliance:  body.C3,
		},
		NotifyEmail: body.EmailDestino,
	}

	if strings.TrimSpace(body.ArchivoAntBase64) != "" {
		prevBytes, prevMIME, err := decodeUpload(body.ArchivoAntBase64)
		if err != nil {
			return nil, err
		}
		if body.TipoMimeAnt == "" {
			body.TipoMimeAnt = prevMIME
		}
		req.Precedent = &domain.UploadedDocument{
			Bytes:    prevBytes,
			Name:     body.NombreAnt,
			MIMEType: body.TipoMimeAnt,
		}
	}

	return req, nil
}

// decodeUpload decodes a base64 payload. A data URL prefix is accepted and its
// media type returned; whitespace, URL-safe alphabets and missing padding are
// tolerated.
func decodeUpload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)

	var mimeType string
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("%w: data URL without payload", domain.ErrInvalidUpload)
		}
		meta := strings.TrimPrefix(payload[:comma], "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("%w: data URL is not base64", domain.ErrInvalidUpload)
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = payload[comma+1:]
	}

	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, mimeType, nil
		}
	}
	return nil, "", domain.ErrInvalidUpload
}
