package contact

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
	"id", "tenant_id", "given_name", "family_name", "email", "phone",
	"company", "job_title", "street", "city", "state", "country",
	"web_site", "notes", "created_at", "updated_at",
}

// Repository handles contact persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new contact repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a contact or updates an existing row with the same ID.
func (r *Repository) Upsert(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.Upsert")
	defer span.End()

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	ib := database.NewInsertBuilder()
	ib.InsertInto("contacts")
	ib.Cols(columns...)
	ib.Values(
		contact.ID, contact.TenantID, contact.GivenName, contact.FamilyName,
		contact.Email, contact.Phone, contact.Company, contact.JobTitle,
		contact.Street, contact.City, contact.State, contact.Country,
		contact.WebSite, contact.Notes, contact.CreatedAt, contact.UpdatedAt,
	)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("given_name", database.Excluded("given_name")),
		ub.Assign("family_name", database.Excluded("family_name")),
		ub.Assign("email", database.Excluded("email")),
		ub.Assign("phone", database.Excluded("phone")),
		ub.Assign("company", database.Excluded("company")),
		ub.Assign("job_title", database.Excluded("job_title")),
		ub.Assign("street", database.Excluded("street")),
		ub.Assign("city", database.Excluded("city")),
		ub.Assign("state", database.Excluded("state")),
		ub.Assign("country", database.Excluded("country")),
		ub.Assign("web_site", database.Excluded("web_site")),
		ub.Assign("notes", database.Excluded("notes")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"contact_id": contact.ID}).Error("Failed to upsert contact")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert contact")
	}

	return contact, nil
}

// Get retrieves a contact by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("contacts")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var contact models.Contact
	if err := r.db.GetContext(ctx, &contact, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contact %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get contact")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact")
	}

	return &contact, nil
}

// ListByTenant retrieves a page of contacts for a tenant, ordered by
// creation time so scan batches are stable across pages.
func (r *Repository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.ListByTenant")
	defer span.End()

	if limit < 1 || limit > 1000 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("contacts")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at ASC", "id ASC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	var contacts []*models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list contacts")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	return contacts, nil
}

// CountByTenant returns the number of contacts for a tenant
func (r *Repository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.CountByTenant")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("contacts")
	sb.Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count contacts")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count contacts")
	}

	return count, nil
}

// Delete removes a contact
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "contact.Repository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom("contacts")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete contact")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete contact")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contact %s not found", id))
	}

	return nil
}
