package dedupe

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/pkg/appcontext"
	"github.com/Ramsey-B/sorrel/pkg/dedupe"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/scanner"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

var validate = validator.New()

// Handler handles duplicate detection endpoints
type Handler struct {
	engine  *dedupe.Engine
	scanner *scanner.Scanner
	logger  ectologger.Logger
}

// NewHandler creates a new dedupe handler
func NewHandler(engine *dedupe.Engine, sc *scanner.Scanner, logger ectologger.Logger) *Handler {
	return &Handler{
		engine:  engine,
		scanner: sc,
		logger:  logger,
	}
}

// RegisterRoutes registers dedupe routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/matches", h.FindMatches)
	g.POST("/matches/name", h.FindMatchesByName)
	g.POST("/matches/phone", h.FindMatchesByPhone)
	g.POST("/matches/email", h.FindMatchesByEmail)
	g.POST("/groups", h.FindGroups)
	g.POST("/scan", h.ScanTenant)
}

// FindMatches scores every contact pair in the request and returns the
// pairs above the duplicate threshold
func (h *Handler) FindMatches(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.FindMatches")
	defer span.End()

	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	matches, err := h.engine.FindDuplicates(ctx, req.Contacts)
	if err != nil {
		return mapEngineError(err)
	}

	n := len(req.Contacts)
	return c.JSON(http.StatusOK, models.MatchListResponse{
		Matches:    matches,
		TotalPairs: n * (n - 1) / 2,
	})
}

// FindGroups partitions the request contacts into duplicate groups
func (h *Handler) FindGroups(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.FindGroups")
	defer span.End()

	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	groups, err := h.engine.GroupDuplicates(ctx, req.Contacts)
	if err != nil {
		return mapEngineError(err)
	}

	return c.JSON(http.StatusOK, models.GroupListResponse{Groups: groups})
}

// FindMatchesByName returns pairs whose names alone clear the threshold
func (h *Handler) FindMatchesByName(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.FindMatchesByName")
	defer span.End()

	req, err := bindRequest(c)
	if err != nil {
		return err
	}
	threshold, err := bindThreshold(c)
	if err != nil {
		return err
	}

	matches, err := h.engine.FindDuplicatesByName(ctx, req.Contacts, threshold)
	if err != nil {
		return mapEngineError(err)
	}

	n := len(req.Contacts)
	return c.JSON(http.StatusOK, models.MatchListResponse{
		Matches:    matches,
		TotalPairs: n * (n - 1) / 2,
	})
}

// FindMatchesByPhone returns pairs whose phones alone clear the threshold
func (h *Handler) FindMatchesByPhone(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.FindMatchesByPhone")
	defer span.End()

	req, err := bindRequest(c)
	if err != nil {
		return err
	}
	threshold, err := bindThreshold(c)
	if err != nil {
		return err
	}

	matches, err := h.engine.FindDuplicatesByPhone(ctx, req.Contacts, threshold)
	if err != nil {
		return mapEngineError(err)
	}

	n := len(req.Contacts)
	return c.JSON(http.StatusOK, models.MatchListResponse{
		Matches:    matches,
		TotalPairs: n * (n - 1) / 2,
	})
}

// FindMatchesByEmail returns pairs whose emails alone clear the threshold
func (h *Handler) FindMatchesByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.FindMatchesByEmail")
	defer span.End()

	req, err := bindRequest(c)
	if err != nil {
		return err
	}
	threshold, err := bindThreshold(c)
	if err != nil {
		return err
	}

	matches, err := h.engine.FindDuplicatesByEmail(ctx, req.Contacts, threshold)
	if err != nil {
		return mapEngineError(err)
	}

	n := len(req.Contacts)
	return c.JSON(http.StatusOK, models.MatchListResponse{
		Matches:    matches,
		TotalPairs: n * (n - 1) / 2,
	})
}

// ScanTenant runs a persisted duplicate scan over the tenant's stored
// contacts
func (h *Handler) ScanTenant(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "dedupe_handler.ScanTenant")
	defer span.End()

	tenantID := appcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	result, err := h.scanner.ScanTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func bindRequest(c echo.Context) (*models.DedupeRequest, error) {
	var req models.DedupeRequest
	if err := c.Bind(&req); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "at least two contacts are required")
	}
	return &req, nil
}

func bindThreshold(c echo.Context) (float64, error) {
	raw := c.QueryParam("threshold")
	if raw == "" {
		return 0, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, "threshold must be a number between 0 and 1")
	}
	return threshold, nil
}

func mapEngineError(err error) error {
	if errors.Is(err, dedupe.ErrMissingContactID) {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
