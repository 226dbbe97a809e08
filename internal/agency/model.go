package agency

import (
	"time"

	"github.com/civiclink/complaints/internal/shared/types"
)

// Agency is a government body responsible for handling complaints of the
// categories it serves. It is reference data: complaints store the agency
// name as a label with no foreign key back to this table.
type Agency struct {
	ID          types.ID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`

	Contact types.ContactInfo    `json:"contact"`
	Address string               `json:"address"`
	Hours   types.OperatingHours `json:"operatingHours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAgencyRequest is the request to create an agency
type CreateAgencyRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Categories  []string              `json:"categories"`
	Contact     types.ContactInfo     `json:"contact"`
	Address     string                `json:"address"`
	Hours       *types.OperatingHours `json:"operatingHours,omitempty"`
}

// UpdateAgencyRequest is the request to update an agency. Absent fields
// are left unchanged; the id is immutable.
type UpdateAgencyRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Categories  *[]string             `json:"categories,omitempty"`
	Contact     *types.ContactInfo    `json:"contact,omitempty"`
	Address     *string               `json:"address,omitempty"`
	Hours       *types.OperatingHours `json:"operatingHours,omitempty"`
}

// Apply merges the request into the agency
func (req UpdateAgencyRequest) Apply(a *Agency) {
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Categories != nil {
		a.Categories = *req.Categories
	}
	if req.Contact != nil {
		a.Contact = *req.Contact
	}
	if req.Address != nil {
		a.Address = *req.Address
	}
	if req.Hours != nil {
		a.Hours = *req.Hours
	}
}
