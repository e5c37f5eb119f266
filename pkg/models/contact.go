package models

import "time"

// Contact is a single address-book record. Every field except the identity
// is optional; the dedupe engine never mutates a Contact.
type Contact struct {
	ID         string `json:"id" db:"id"`
	TenantID   string `json:"tenant_id,omitempty" db:"tenant_id"`
	GivenName  string `json:"given_name,omitempty" db:"given_name"`
	FamilyName string `json:"family_name,omitempty" db:"family_name"`
	Email      string `json:"email,omitempty" db:"email"`
	Phone      string `json:"phone,omitempty" db:"phone"`
	Company    string `json:"company,omitempty" db:"company"`
	JobTitle   string `json:"job_title,omitempty" db:"job_title"`
	Street     string `json:"street,omitempty" db:"street"`
	City       string `json:"city,omitempty" db:"city"`
	State      string `json:"state,omitempty" db:"state"`
	Country    string `json:"country,omitempty" db:"country"`
	WebSite    string `json:"web_site,omitempty" db:"web_site"`
	Notes      string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// CompletenessScore counts how many of the fixed field checklist are
// populated. It drives primary-record selection: the most complete member
// of a duplicate group becomes the canonical record. Country is
// deliberately not part of the checklist.
func (c *Contact) CompletenessScore() int {
	fields := [...]string{
		c.GivenName,
		c.FamilyName,
		c.Email,
		c.Phone,
		c.Company,
		c.JobTitle,
		c.Street,
		c.City,
		c.State,
		c.WebSite,
		c.Notes,
	}

	count := 0
	for _, f := range fields {
		if f != "" {
			count++
		}
	}
	return count
}
