package authUseCase

import (
	"context"
	"net/http"
	"strings"

	"github.com/ajisaka/devmatch/internal/entity"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	"github.com/ajisaka/devmatch/pkg/jwt"
	"github.com/labstack/echo"
	"golang.org/x/crypto/bcrypt"
)

type IAuthUseCase interface {
	SignupUser(ctx context.Context, request entity.CreateUserRequest) (*entity.Profile, error)
	SignIn(ctx context.Context, email, username, password string) (string, error)

	// SyncIdentity upserts a profile from an external identity provider and
	// issues a session token for it.
	SyncIdentity(ctx context.Context, request entity.SyncIdentityRequest) (*entity.Profile, string, error)

	GetUserFromJWTRequest(c echo.Context) (*entity.Profile, error)
}

type authUseCase struct {
	profileRepo profileRepo.IProfileRepo
}

func New(profiles profileRepo.IProfileRepo) IAuthUseCase {
	return &authUseCase{
		profileRepo: profiles,
	}
}

func (p *authUseCase) SignupUser(ctx context.Context, authData entity.CreateUserRequest) (*entity.Profile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(authData.Password+authData.Email), 12)
	if err != nil {
		return nil, err
	}

	profile := entity.Profile{
		Name:     authData.Name,
		Email:    authData.Email,
		Username: authData.Username,
		Password: string(hashedPassword),
		Provider: entity.ProviderLocal,
	}

	return p.profileRepo.Create(ctx, &profile)
}

func (p *authUseCase) SignIn(ctx context.Context, email, username, password string) (string, error) {
	profile, err := p.profileRepo.GetByUnameOrEmail(ctx, email, username)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password+profile.Email)); err != nil {
		return "", err
	}

	token, err := jwt.CreateToken(int(profile.ID), profile.Username)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (p *authUseCase) SyncIdentity(ctx context.Context, request entity.SyncIdentityRequest) (*entity.Profile, string, error) {
	profile, err := p.profileRepo.UpsertIdentity(
		ctx,
		entity.Provider(strings.ToLower(request.Provider)),
		request.Email,
		request.Name,
		request.AvatarURL,
	)
	if err != nil {
		return nil, "", err
	}

	token, err := jwt.CreateToken(int(profile.ID), profile.Username)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (p *authUseCase) GetUserFromJWTRequest(c echo.Context) (*entity.Profile, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
	}
	token := parts[1]

	claims, err := jwt.ValidateToken(token)

	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
	}

	return p.profileRepo.GetByID(c.Request().Context(), uint(claims.UserID))
}
