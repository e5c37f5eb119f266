package suggestion

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/internal/repositories/suggestion"
	"github.com/Ramsey-B/sorrel/pkg/appcontext"
	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Handler handles the duplicate suggestion review queue
type Handler struct {
	repo    *suggestion.Repository
	emitter *events.Emitter
	logger  ectologger.Logger
}

// NewHandler creates a new suggestion handler
func NewHandler(repo *suggestion.Repository, emitter *events.Emitter, logger ectologger.Logger) *Handler {
	return &Handler{
		repo:    repo,
		emitter: emitter,
		logger:  logger,
	}
}

// RegisterRoutes registers suggestion routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/dismiss", h.Dismiss)
}

// List returns suggestions for the tenant, pending first by default
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "suggestion_handler.List")
	defer span.End()

	tenantID := appcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	status := c.QueryParam("status")
	if status == "" {
		status = models.SuggestionStatusPending
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, totalCount, err := h.repo.List(ctx, tenantID, status, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.SuggestionListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Get returns a single suggestion
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "suggestion_handler.Get")
	defer span.End()

	tenantID := appcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	s, err := h.repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, s)
}

// Approve marks a pending suggestion as approved
func (h *Handler) Approve(c echo.Context) error {
	return h.resolve(c, models.SuggestionStatusApproved)
}

// Dismiss marks a pending suggestion as dismissed
func (h *Handler) Dismiss(c echo.Context) error {
	return h.resolve(c, models.SuggestionStatusDismissed)
}

func (h *Handler) resolve(c echo.Context, status string) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "suggestion_handler.resolve")
	defer span.End()

	tenantID := appcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")
	var resolvedBy *string
	if userID := appcontext.GetUserID(ctx); userID != "" {
		resolvedBy = &userID
	}

	if err := h.repo.UpdateStatus(ctx, tenantID, id, status, resolvedBy); err != nil {
		return err
	}

	s, err := h.repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if h.emitter != nil {
		if err := h.emitter.EmitSuggestionResolved(ctx, s); err != nil {
			h.logger.WithContext(ctx).WithError(err).Warn("Suggestion resolved but event emission failed")
		}
	}

	return c.JSON(http.StatusOK, s)
}
