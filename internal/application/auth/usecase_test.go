package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/application/auth"
	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/kvrepo"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/memstore"
	"github.com/jhoicas/conversion-pro/pkg/jwt"
)

var creds = []auth.Credential{
	{ID: "30530", Password: "4321", Name: "Super Admin", Role: entity.RoleAdmin},
	{ID: "1234", Password: "1234", Name: "Sales Associate", Role: entity.RoleEmployee},
}

var jwtCfg = auth.JWTConfig{Secret: "s3cret", ExpMinutes: 5, Issuer: "conversion-pro"}

func TestAuthenticate_IgualdadExacta(t *testing.T) {
	uc := auth.NewAuthUseCase(creds, jwtCfg, nil)

	u, err := uc.Authenticate("30530", "4321")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	for _, pair := range [][2]string{{"30530", "1234"}, {"1234 ", "1234"}, {"", ""}} {
		_, err := uc.Authenticate(pair[0], pair[1])
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}

func TestLogin_EmiteToken(t *testing.T) {
	uc := auth.NewAuthUseCase(creds, jwtCfg, nil)

	out, err := uc.Login(dto.LoginRequest{ID: "1234", Password: "1234"})

	require.NoError(t, err)
	assert.Equal(t, "Sales Associate", out.User.Name)
	claims, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", claims.Role)
	assert.Equal(t, "1234", claims.UserID)
}

func TestSignIn_PersisteYCierraSesion(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	defer store.Close()
	uc := auth.NewAuthUseCase(creds, jwtCfg, kvrepo.NewSessionRepository(store, zerolog.Nop()))

	_, err := uc.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.SignIn(ctx, "30530", "4321")
	require.NoError(t, err)
	u, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Super Admin", u.Name)

	require.NoError(t, uc.SignOut(ctx))
	_, err = uc.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
