package routesV1Match

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ajisaka/devmatch/internal/entity"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	connectionUseCase "github.com/ajisaka/devmatch/internal/usecase/connection"
	"github.com/ajisaka/devmatch/internal/usecase/match"
	"github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/labstack/echo"
)

func GetMatchesHandler(c echo.Context, matchCase match.IMatchUseCase, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	limit := match.DefaultBufferSize
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = parsed
	}

	matches, err := matchCase.GetMatches(c.Request().Context(), user.ID, limit)

	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to get matches"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.MatchListResponse]{
		Message: "Matches fetched successfully",
		Data: entity.MatchListResponse{
			Matches: matches,
		},
	})
}

func PassHandler(c echo.Context, connectionCase connectionUseCase.IConnectionUseCase, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	err = connectionCase.Pass(c.Request().Context(), user.ID, uint(targetID))

	switch {
	case errors.Is(err, entity.ErrSelfReference):
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "cannot pass on yourself"})
	case errors.Is(err, entity.ErrNotFound):
		return http_util.Encode(c, http.StatusNotFound, map[string]string{"error": "profile not found"})
	case err != nil:
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to record pass"})
	}

	return http_util.Encode(c, http.StatusOK, map[string]bool{"success": true})
}
