package generator

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/pdfcheck"
	"bewerbung-gateway/internal/shared/server/middleware"
	"bewerbung-gateway/internal/shared/server/respond"
	"bewerbung-gateway/internal/upstream"
)

const maxResumeBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the workflow service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches flow routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/flows", h.start)
	rg.GET("/flows/:id", h.get)
	rg.POST("/flows/:id/job", h.submitJob)
	rg.POST("/flows/:id/resume", h.uploadResume)
	rg.POST("/flows/:id/generate", h.generate)
	rg.POST("/flows/:id/back", h.back)
	rg.POST("/flows/:id/save", h.save)
	rg.GET("/flows/:id/download", h.download)
}

func (h *Handler) start(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	session, err := h.Svc.Start(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Sitzung konnte nicht erstellt werden", nil)
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusCreated, session)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	session, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Sitzung konnte nicht geladen werden")
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusOK, session)
}

type submitJobRequest struct {
	URL string `json:"url"`
}

func (h *Handler) submitJob(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	token := middleware.TokenFromContext(c)

	var req submitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Ungültiger Request-Body", nil)
		return
	}

	session, err := h.Svc.SubmitJobURL(c.Request.Context(), token, userID, c.Param("id"), req.URL)
	if err != nil {
		h.fail(c, err, "Fehler beim Abrufen der URL")
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusOK, session)
}

func (h *Handler) uploadResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	token := middleware.TokenFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Datei ist erforderlich", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Datei konnte nicht gelesen werden", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Datei konnte nicht gelesen werden", nil)
		return
	}

	session, err := h.Svc.UploadResume(c.Request.Context(), token, userID, c.Param("id"), fileHeader.Filename, data)
	if err != nil {
		h.fail(c, err, "Fehler bei der PDF-Analyse")
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusOK, session)
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	token := middleware.TokenFromContext(c)

	session, err := h.Svc.Generate(c.Request.Context(), token, userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Fehler bei der Generierung")
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusOK, session)
}

func (h *Handler) back(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	session, err := h.Svc.Back(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Zurück nicht möglich")
		return
	}
	c.Set("flowId", session.ID)
	c.Set("flowStep", string(session.Step))
	respond.JSON(c, http.StatusOK, session)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	token := middleware.TokenFromContext(c)

	record, err := h.Svc.Save(c.Request.Context(), token, userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Bewerbung konnte nicht gespeichert werden")
		return
	}
	c.Data(http.StatusCreated, "application/json", record)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	token := middleware.TokenFromContext(c)

	pdf, fileName, err := h.Svc.ExportPDF(c.Request.Context(), token, userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "PDF konnte nicht erstellt werden")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// fail maps workflow errors to responses. Upstream failures surface the
// service-provided message when present, else the caller's generic fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var apiErr *upstream.APIError
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Sitzung nicht gefunden", nil)
	case errors.Is(err, ErrEmptyJobURL):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Bitte eine Stellenanzeigen-URL eingeben", nil)
	case errors.Is(err, pdfcheck.ErrNotPDF):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Nur PDF-Dateien werden akzeptiert", nil)
	case errors.Is(err, pdfcheck.ErrUnreadable):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Die PDF-Datei konnte nicht gelesen werden", nil)
	case errors.Is(err, ErrInvalidStep):
		respond.Error(c, http.StatusConflict, "invalid_step", "Aktion in diesem Schritt nicht möglich", nil)
	case errors.Is(err, ErrResumeMissing):
		respond.Error(c, http.StatusConflict, "resume_missing", "Bitte zuerst einen Lebenslauf hochladen", nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_ready", "Bitte zuerst ein Anschreiben generieren", nil)
	case errors.As(err, &apiErr):
		respond.Error(c, http.StatusBadGateway, "upstream_error", apiErr.UserMessage(fallback), nil)
	default:
		respond.Error(c, http.StatusBadGateway, "upstream_error", fallback, nil)
	}
}
