// Package dto defines request and response shapes for the HTTP API.
package dto

// OAuthLoginRequest is the body for POST /auth/oauth.
type OAuthLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// PasswordLoginRequest is the body for POST /auth/login.
type PasswordLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// OTPRequestRequest is the body for POST /auth/otp/request.
type OTPRequestRequest struct {
	Email string `json:"email"`
}

// OTPVerifyRequest is the body for POST /auth/otp/verify.
type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

// LoginResponse is the result of any successful login flow.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// OTPRequestedResponse acknowledges an issued code without echoing it.
type OTPRequestedResponse struct {
	Status string `json:"status"`
}
