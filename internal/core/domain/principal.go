package domain

// Principal is an identity verified by the external identity provider.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}
