package dto

// CredentialsRequest is the body of /register and /login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// MessageResponse carries human readable outcome or error text.
type MessageResponse struct {
	Message string `json:"message"`
}
