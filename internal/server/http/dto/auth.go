package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterRequest signs up a practice together with its first account.
type RegisterRequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	PracticeName string `json:"practice_name"`
	Email        string `json:"email"`
}

// TokenResponse carries the issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}
