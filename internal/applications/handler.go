package applications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/shared/server/middleware"
	"bewerbung-gateway/internal/shared/server/respond"
	"bewerbung-gateway/internal/upstream"
)

// UpstreamAPI is the slice of the assistant service the dashboard uses.
type UpstreamAPI interface {
	ListApplications(ctx context.Context, token string) (json.RawMessage, error)
	GetApplication(ctx context.Context, token, id string) (json.RawMessage, error)
	DeleteApplication(ctx context.Context, token, id string) (json.RawMessage, error)
}

// Handler proxies the dashboard operations. Application records are owned by
// the upstream service and forwarded verbatim in both directions.
type Handler struct {
	Upstream UpstreamAPI
}

// NewHandler constructs a Handler.
func NewHandler(api UpstreamAPI) *Handler {
	return &Handler{Upstream: api}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.DELETE("/applications/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	token := middleware.TokenFromContext(c)
	records, err := h.Upstream.ListApplications(c.Request.Context(), token)
	if err != nil {
		fail(c, err, "Bewerbungen konnten nicht geladen werden")
		return
	}
	c.Data(http.StatusOK, "application/json", records)
}

func (h *Handler) get(c *gin.Context) {
	token := middleware.TokenFromContext(c)
	record, err := h.Upstream.GetApplication(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		fail(c, err, "Bewerbung konnte nicht geladen werden")
		return
	}
	c.Data(http.StatusOK, "application/json", record)
}

func (h *Handler) remove(c *gin.Context) {
	token := middleware.TokenFromContext(c)
	result, err := h.Upstream.DeleteApplication(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		fail(c, err, "Bewerbung konnte nicht gelöscht werden")
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func fail(c *gin.Context, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		respond.Error(c, status, "upstream_error", apiErr.UserMessage(fallback), nil)
		return
	}
	respond.Error(c, http.StatusBadGateway, "upstream_error", fallback, nil)
}
