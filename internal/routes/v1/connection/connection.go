package routesV1Connection

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ajisaka/devmatch/internal/entity"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	connectionUseCase "github.com/ajisaka/devmatch/internal/usecase/connection"
	"github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/labstack/echo"
)

func RequestHandler(c echo.Context, connectionCase connectionUseCase.IConnectionUseCase, authCase authUseCase.IAuthUseCase) error {
	user, targetID, err := actor(c, authCase)
	if err != nil {
		return err
	}

	return respond(c, connectionCase.Request(c.Request().Context(), user.ID, targetID))
}

func AcceptHandler(c echo.Context, connectionCase connectionUseCase.IConnectionUseCase, authCase authUseCase.IAuthUseCase) error {
	user, fromID, err := actor(c, authCase)
	if err != nil {
		return err
	}

	return respond(c, connectionCase.Accept(c.Request().Context(), user.ID, fromID))
}

func RejectHandler(c echo.Context, connectionCase connectionUseCase.IConnectionUseCase, authCase authUseCase.IAuthUseCase) error {
	user, fromID, err := actor(c, authCase)
	if err != nil {
		return err
	}

	return respond(c, connectionCase.Reject(c.Request().Context(), user.ID, fromID))
}

func StateHandler(c echo.Context, connectionCase connectionUseCase.IConnectionUseCase, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	state, err := connectionCase.State(c.Request().Context(), user.ID)
	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to get state"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[*entity.RelationshipState]{
		Message: "Relationship state",
		Data:    state,
	})
}

// actor resolves the authenticated user and the :id path parameter.
func actor(c echo.Context, authCase authUseCase.IAuthUseCase) (*entity.Profile, uint, error) {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return nil, 0, http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	otherID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, 0, http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	return user, uint(otherID), nil
}

func respond(c echo.Context, err error) error {
	switch {
	case err == nil:
		return http_util.Encode(c, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, entity.ErrSelfReference):
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "cannot target own profile"})
	case errors.Is(err, entity.ErrNotFound):
		return http_util.Encode(c, http.StatusNotFound, map[string]string{"error": "profile not found"})
	case errors.Is(err, entity.ErrBlocked):
		return http_util.Encode(c, http.StatusForbidden, map[string]string{"error": "user has passed you"})
	case errors.Is(err, entity.ErrNotPending):
		return http_util.Encode(c, http.StatusConflict, map[string]string{"error": "no pending request"})
	default:
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "connection action failed"})
	}
}
