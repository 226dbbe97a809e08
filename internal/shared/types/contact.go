package types

// ContactInfo represents contact information
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// OperatingHours represents an agency's business hours
type OperatingHours struct {
	Start string   `json:"start"` // HH:MM
	End   string   `json:"end"`   // HH:MM
	Days  []string `json:"days"`
}

// DefaultOperatingHours returns standard weekday business hours
func DefaultOperatingHours() OperatingHours {
	return OperatingHours{
		Start: "09:00",
		End:   "17:00",
		Days:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	}
}
