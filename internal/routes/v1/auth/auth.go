package routesV1Auth

import (
	"net/http"

	"github.com/ajisaka/devmatch/internal/entity"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	serializer "github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/labstack/echo"
)

func SignUpHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := serializer.Decode[entity.CreateUserRequest](c)

	if err != nil {
		return serializer.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := reqBody.Validate(c.Request().Context())

	if len(problems) != 0 {
		return serializer.Encode(c, http.StatusBadRequest, map[string]interface{}{
			"message":  "Bad request check your request",
			"problems": problems,
		})
	}

	profile, err := authCase.SignupUser(c.Request().Context(), reqBody)

	if err != nil {
		return serializer.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to sign up"})
	}

	return serializer.Encode(c, http.StatusOK, serializer.HTTPResponse[entity.SignUpResponse]{
		Message: "Sign-up successful",
		Data: entity.SignUpResponse{
			ID:       profile.ID,
			Username: profile.Username,
			Name:     profile.Name,
			Email:    profile.Email,
		},
	})
}

func SignInHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := serializer.Decode[entity.SignInRequest](c)

	if err != nil {
		return serializer.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := reqBody.Validate(c.Request().Context())

	if len(problems) != 0 {
		return serializer.Encode(c, http.StatusBadRequest, map[string]interface{}{
			"message":  "Bad request check your request",
			"problems": problems,
		})
	}

	jwtToken, err := authCase.SignIn(c.Request().Context(), reqBody.Email, reqBody.Username, reqBody.Password)

	if err != nil {
		return serializer.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	return serializer.Encode(c, http.StatusOK, entity.SignInResponse{Token: jwtToken})
}

func SyncHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := serializer.Decode[entity.SyncIdentityRequest](c)

	if err != nil {
		return serializer.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := reqBody.Validate(c.Request().Context())

	if len(problems) != 0 {
		return serializer.Encode(c, http.StatusBadRequest, map[string]interface{}{
			"message":  "Bad request check your request",
			"problems": problems,
		})
	}

	profile, token, err := authCase.SyncIdentity(c.Request().Context(), reqBody)

	if err != nil {
		return serializer.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to sync identity"})
	}

	return serializer.Encode(c, http.StatusOK, serializer.HTTPResponse[entity.SyncIdentityResponse]{
		Message: "Identity synced",
		Data: entity.SyncIdentityResponse{
			Profile: profile,
			Token:   token,
		},
	})
}
