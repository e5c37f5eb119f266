package suggestion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/sorrel/pkg/database"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

var columns = []string{
	"id", "tenant_id", "primary_contact_id", "member_contact_ids",
	"aggregate_similarity", "reasons", "status", "created_at", "updated_at",
	"resolved_at", "resolved_by",
}

// Repository handles duplicate suggestion persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new suggestion repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch persists a batch of suggestions from a scan run. An open
// pending suggestion for the same primary keeps its higher score.
func (r *Repository) CreateBatch(ctx context.Context, suggestions []*models.DuplicateSuggestion) error {
	ctx, span := tracing.StartSpan(ctx, "suggestion.Repository.CreateBatch")
	defer span.End()

	if len(suggestions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("duplicate_suggestions")
	sb.Cols("id", "tenant_id", "primary_contact_id", "member_contact_ids", "aggregate_similarity", "reasons", "status", "created_at", "updated_at")

	for _, s := range suggestions {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		s.CreatedAt = now
		s.UpdatedAt = now
		if s.Status == "" {
			s.Status = models.SuggestionStatusPending
		}
		sb.Values(s.ID, s.TenantID, s.PrimaryContactID, s.MemberContactIDs, s.AggregateSimilarity, s.Reasons, s.Status, s.CreatedAt, s.UpdatedAt)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (tenant_id, primary_contact_id) WHERE status = 'pending' DO UPDATE SET member_contact_ids = EXCLUDED.member_contact_ids, aggregate_similarity = GREATEST(duplicate_suggestions.aggregate_similarity, EXCLUDED.aggregate_similarity), reasons = EXCLUDED.reasons, updated_at = EXCLUDED.updated_at"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create suggestions batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create suggestions")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(suggestions)}).Debug("Created suggestions batch")
	return nil
}

// Get retrieves a suggestion by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.DuplicateSuggestion, error) {
	ctx, span := tracing.StartSpan(ctx, "suggestion.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("duplicate_suggestions")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var s models.DuplicateSuggestion
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("suggestion %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get suggestion")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get suggestion")
	}

	return &s, nil
}

// List retrieves suggestions for a tenant, optionally filtered by status,
// highest score first.
func (r *Repository) List(ctx context.Context, tenantID string, status string, page, pageSize int) ([]models.DuplicateSuggestion, int, error) {
	ctx, span := tracing.StartSpan(ctx, "suggestion.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	where := func(sb *sqlbuilder.SelectBuilder) {
		conds := []string{sb.Equal("tenant_id", tenantID)}
		if status != "" {
			conds = append(conds, sb.Equal("status", status))
		}
		sb.Where(conds...)
	}

	countSB := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSB.Select("COUNT(*)")
	countSB.From("duplicate_suggestions")
	where(countSB)

	query, args := countSB.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count suggestions")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count suggestions")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("duplicate_suggestions")
	where(sb)
	sb.OrderBy("aggregate_similarity DESC", "created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args = sb.Build()
	var suggestions []models.DuplicateSuggestion
	if err := r.db.SelectContext(ctx, &suggestions, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list suggestions")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list suggestions")
	}

	return suggestions, total, nil
}

// UpdateStatus resolves a suggestion. Only pending suggestions can change
// status.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID string, id string, status string, resolvedBy *string) error {
	ctx, span := tracing.StartSpan(ctx, "suggestion.Repository.UpdateStatus")
	defer span.End()

	now := time.Now().UTC()
	ub := database.NewUpdateBuilder()
	ub.Update("duplicate_suggestions")
	ub.Set(
		ub.Assign("status", status),
		ub.Assign("resolved_at", now),
		ub.Assign("resolved_by", resolvedBy),
		ub.Assign("updated_at", now),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
		ub.Equal("status", models.SuggestionStatusPending),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update suggestion status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update suggestion status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("pending suggestion %s not found", id))
	}

	return nil
}
