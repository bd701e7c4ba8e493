package dto

// LoginRequest entrada para login con la contraseña del magasin.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse token JWT emitido tras login exitoso.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
