package routesV1Profile

import (
	"net/http"

	"github.com/ajisaka/devmatch/internal/entity"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	profileUseCase "github.com/ajisaka/devmatch/internal/usecase/profile"
	"github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/labstack/echo"
)

func UpdateProfileHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	request, err := http_util.Decode[entity.UpdateProfileRequest](c)

	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := request.Validate(c.Request().Context())

	if len(problems) != 0 {
		return http_util.Encode(c, http.StatusBadRequest, map[string]interface{}{
			"message":  "Bad request check your request",
			"problems": problems,
		})
	}

	profile, err := profileCase.UpdateOnboarding(c.Request().Context(), user.ID, request)

	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[*entity.Profile]{
		Message: "Profile updated successfully",
		Data:    profile,
	})
}

func GetProfileHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	profile, err := profileCase.GetProfile(c.Request().Context(), user.ID)

	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[*entity.Profile]{
		Message: "Profile fetched successfully",
		Data:    profile,
	})
}
