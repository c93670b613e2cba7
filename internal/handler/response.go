package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ppoeval/internal/domain"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/middleware"
)

// EvaluationResponse is the success body: the model's report, verbatim.
type EvaluationResponse struct {
	Mensaje string `json:"mensaje"`
}

// ErrorResponse is the body of every failed request. Detalle is only set on
// server-side failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Detalle string `json:"detalle,omitempty"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg, detail string) {
	c.JSON(status, ErrorResponse{Error: msg, Detalle: detail})
}

// MapDomainError translates domain errors to HTTP status codes and messages.
func MapDomainError(err error) (status int, msg string) {
	var rlErr *evaluator.RateLimitError
	switch {
	case errors.Is(err, domain.ErrMissingUpload):
		return http.StatusBadRequest, "Falta el archivo PPO"
	case errors.Is(err, domain.ErrInvalidUpload):
		return http.StatusBadRequest, "El archivo no está codificado en base64 válido"
	case errors.Is(err, domain.ErrMissingPrecedentName):
		return http.StatusBadRequest, "Falta el nombre del documento de antecedente"
	case errors.Is(err, domain.ErrInvalidRequestBody):
		return http.StatusBadRequest, "El cuerpo de la solicitud no es válido"
	case errors.Is(err, domain.ErrRecipientNotAllowed):
		return http.StatusBadRequest, "El destinatario de correo no está permitido"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "La solicitud excede el tamaño máximo permitido"
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "Method Not Allowed"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusInternalServerError, "Error de configuración del servidor"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusInternalServerError, "El servicio de evaluación no respondió a tiempo"
	case errors.As(err, &rlErr):
		return http.StatusInternalServerError, "Se agotó la cuota del servicio de evaluación"
	default:
		return http.StatusInternalServerError, "Error interno del servidor"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server-side failures carry the error text in detalle.
func HandleError(c *gin.Context, err error) {
	status, msg := MapDomainError(err)
	detail := ""
	if status >= 500 {
		log.Printf("[%s] internal error: %v", c.GetString(middleware.ContextKeyRequestID), err)
		detail = err.Error()
	}
	RespondError(c, status, msg, detail)
}
