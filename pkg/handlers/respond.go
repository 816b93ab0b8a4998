package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, data interface{}) {
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(data)
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	respondWithJSON(ctx, fasthttp.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondWithDomainError traduce la clase del error a su código HTTP
func respondWithDomainError(ctx *fasthttp.RequestCtx, err error) {
	respondWithJSON(ctx, errs.HTTPStatus(err), models.APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// requireAdmin verifica el token y exige rol de administrador
func requireAdmin(ctx *fasthttp.RequestCtx, tokens *auth.TokenService) (*auth.Principal, error) {
	principal, err := tokens.FromRequest(ctx)
	if err != nil {
		return nil, err
	}
	if principal.Role != auth.RoleAdmin {
		return nil, errs.Unauthorizedf("admin access required")
	}
	return principal, nil
}

// requireTeam verifica el token y exige rol de equipo
func requireTeam(ctx *fasthttp.RequestCtx, tokens *auth.TokenService) (*auth.Principal, error) {
	principal, err := tokens.FromRequest(ctx)
	if err != nil {
		return nil, err
	}
	if principal.Role != auth.RoleTeam {
		return nil, errs.Unauthorizedf("team access required")
	}
	return principal, nil
}
