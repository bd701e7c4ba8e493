package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/pkg/jwt"
)

// Subject y rol fijos del token: hay una única cuenta compartida del magasin.
const (
	Subject = "magasin"
	Role    = "gestionnaire"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login con la contraseña compartida del magasin.
type AuthUseCase struct {
	passwordHash []byte
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso. passwordHash (bcrypt) tiene prioridad;
// si está vacío se hashea password en claro. Sin ninguno de los dos, error.
func NewAuthUseCase(passwordHash, password string, jwtCfg JWTConfig) (*AuthUseCase, error) {
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		if password == "" {
			return nil, fmt.Errorf("auth: AUTH_PASSWORD_HASH o AUTH_PASSWORD requerido")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash de contraseña: %w", err)
		}
		hash = h
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("auth: AUTH_PASSWORD_HASH no es un hash bcrypt: %w", err)
	}
	return &AuthUseCase{passwordHash: hash, jwtCfg: jwtCfg}, nil
}

// Login verifica la contraseña y genera un JWT.
func (uc *AuthUseCase) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, Subject, Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}
