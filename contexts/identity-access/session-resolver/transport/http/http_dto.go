package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SignUpRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Name               string `json:"name"`
	Department         string `json:"department"`
	RegistrationNumber string `json:"registration_number"`
	PhoneNumber        string `json:"phone_number"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	IdentityID string `json:"identity_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	Ready      bool   `json:"ready"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
