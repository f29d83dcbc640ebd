package main

import (
	"errors"
	"net/http"

	"foodstore/internal/auth"
	"foodstore/internal/domain/cashiers"
)

type CreateTokenPayload struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

type RefreshTokenPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

var errInvalidCredentials = errors.New("invalid credentials")

// POST /v1/authentication/token {username, password}
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cashier, err := app.store.Cashiers.GetByUsername(r.Context(), payload.Username)
	if err != nil {
		switch {
		case errors.Is(err, cashiers.ErrNotFound):
			app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := cashier.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
		return
	}

	access, refresh, err := app.authenticator.GenerateTokens(cashier.ID, cashier.Role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("token issued", "cashier_id", cashier.ID)

	if err := app.jsonResponse(w, http.StatusCreated, TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/authentication/refresh {refresh_token}
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RefreshTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	tok, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	cashierID, _, err := auth.CashierID(tok)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	cashier, err := app.store.Cashiers.GetByID(r.Context(), cashierID)
	if err != nil {
		switch {
		case errors.Is(err, cashiers.ErrNotFound):
			app.unauthorizedErrorResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	access, refresh, err := app.authenticator.GenerateTokens(cashier.ID, cashier.Role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
		app.internalServerError(w, r, err)
	}
}
