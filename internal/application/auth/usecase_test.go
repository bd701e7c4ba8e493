package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/drb-alger/gestion-magasin/internal/application/auth"
	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "secreto", ExpMinutes: 10, Issuer: "test"}

func TestLogin_PasswordEnClaro(t *testing.T) {
	uc, err := auth.NewAuthUseCase("", "magasin2024", jwtCfg)
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Password: "magasin2024"})
	require.NoError(t, err)
	assert.Equal(t, 600, out.ExpiresIn)

	sub, role, err := jwt.Parse("secreto", out.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Subject, sub)
	assert.Equal(t, auth.Role, role)
}

func TestLogin_Hash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)
	uc, err := auth.NewAuthUseCase(string(hash), "ignorada", jwtCfg)
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Password: "ignorada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Password: "clave"})
	assert.NoError(t, err)
}

func TestLogin_PasswordVacio(t *testing.T) {
	uc, err := auth.NewAuthUseCase("", "x", jwtCfg)
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewAuthUseCase_SinPassword(t *testing.T) {
	_, err := auth.NewAuthUseCase("", "", jwtCfg)
	assert.Error(t, err)

	_, err = auth.NewAuthUseCase("no-es-bcrypt", "", jwtCfg)
	assert.Error(t, err)
}
