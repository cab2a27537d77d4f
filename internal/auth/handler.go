package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/shared/server/middleware"
	"bewerbung-gateway/internal/shared/server/respond"
	"bewerbung-gateway/internal/upstream"
)

const maxAuthBodyBytes = 64 << 10

// UpstreamAPI is the slice of the assistant service used by the login and
// register modal.
type UpstreamAPI interface {
	Register(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	Login(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	Me(ctx context.Context, token string) (json.RawMessage, error)
}

// Handler proxies registration and login. Credentials and token responses
// pass through verbatim; the gateway never stores them.
type Handler struct {
	Upstream UpstreamAPI
}

// NewHandler constructs a Handler.
func NewHandler(api UpstreamAPI) *Handler {
	return &Handler{Upstream: api}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.GET("/auth/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	result, err := h.Upstream.Register(c.Request.Context(), body)
	if err != nil {
		fail(c, err, "Registrierung fehlgeschlagen")
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func (h *Handler) login(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	result, err := h.Upstream.Login(c.Request.Context(), body)
	if err != nil {
		fail(c, err, "Anmeldung fehlgeschlagen")
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func (h *Handler) me(c *gin.Context) {
	token := middleware.TokenFromContext(c)
	result, err := h.Upstream.Me(c.Request.Context(), token)
	if err != nil {
		fail(c, err, "Profil konnte nicht geladen werden")
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func readBody(c *gin.Context) (json.RawMessage, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAuthBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Ungültiger Request-Body", nil)
		return nil, false
	}
	return body, true
}

func fail(c *gin.Context, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict:
			status = apiErr.StatusCode
		}
		respond.Error(c, status, "upstream_error", apiErr.UserMessage(fallback), nil)
		return
	}
	respond.Error(c, http.StatusBadGateway, "upstream_error", fallback, nil)
}
