package auth

import "github.com/labcollective/memberhub/internal/member"

const minPasswordLength = 6

const (
	msgRegisterRequired   = "Name, email, and password are required"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgEmailTaken         = "A member with this email already exists"
	msgLoginRequired      = "Name, email, and password are required"
	msgMemberNotFound     = "No member found with this email"
	msgInvalidCredentials = "Invalid credentials"
	msgNoPasswordSet      = "No password set for this account. Please contact an administrator."
	msgAdminRequired      = "Email and password are required"
	msgInvalidAdmin       = "Invalid admin credentials. Please check your email and password."
)

// Request bodies carry no binding tags; the service reports which field is missing.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MemberAuthResponse is returned by member login and registration.
type MemberAuthResponse struct {
	Member *member.Member `json:"member"`
	Token  string         `json:"token"`
}

// AdminAuthResponse is returned by admin login.
type AdminAuthResponse struct {
	Admin *member.Member `json:"admin"`
	Token string         `json:"token"`
}
