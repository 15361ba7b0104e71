package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credential par estático id/contraseña asociado a un usuario.
type Credential struct {
	ID       string
	Password string
	Name     string
	Role     entity.Role
}

// AuthUseCase login contra las credenciales configuradas (igualdad exacta,
// sin hash ni bloqueo) y sesión persistida para el CLI.
type AuthUseCase struct {
	creds    []Credential
	jwtCfg   JWTConfig
	sessions repository.SessionRepository
}

// NewAuthUseCase construye el caso de uso de auth. sessions puede ser nil
// cuando sólo se emiten tokens (API HTTP).
func NewAuthUseCase(creds []Credential, jwtCfg JWTConfig, sessions repository.SessionRepository) *AuthUseCase {
	return &AuthUseCase{creds: creds, jwtCfg: jwtCfg, sessions: sessions}
}

// Authenticate devuelve el usuario cuyas credenciales coinciden exactamente.
func (uc *AuthUseCase) Authenticate(id, password string) (*entity.User, error) {
	for _, c := range uc.creds {
		if c.ID == id && c.Password == password {
			return &entity.User{ID: c.ID, Name: c.Name, Role: c.Role}, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

// Login verifica credenciales, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.Authenticate(in.ID, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: ToUserResponse(*user)}, nil
}

// SignIn autentica y guarda la sesión en el almacén (clave cp_session).
func (uc *AuthUseCase) SignIn(ctx context.Context, id, password string) (*entity.User, error) {
	user, err := uc.Authenticate(id, password)
	if err != nil {
		return nil, err
	}
	if uc.sessions == nil {
		return user, nil
	}
	if err := uc.sessions.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Current devuelve el usuario de la sesión guardada o ErrUnauthorized.
func (uc *AuthUseCase) Current(ctx context.Context) (*entity.User, error) {
	if uc.sessions == nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// SignOut borra la sesión guardada.
func (uc *AuthUseCase) SignOut(ctx context.Context) error {
	if uc.sessions == nil {
		return nil
	}
	return uc.sessions.Clear(ctx)
}

// ToUserResponse mapea el usuario al DTO.
func ToUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Role: string(u.Role)}
}
