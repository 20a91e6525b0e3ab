package management

import (
	"net/http"
	"time"

	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/api/validation"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/user"
)

const cookieNameToken = "access_token"

type endpointAuthResponse struct {
	Result bool       `json:"result"`
	Token  string     `json:"token"`
	User   *user.User `json:"user"`
	Roles  []string   `json:"roles"`
}

type endpointRegisterRequestPayload struct {
	Name            *string `json:"name" required:"true"`
	Age             *int    `json:"age" required:"true"`
	Email           *string `json:"email" required:"true"`
	Password        *string `json:"password" required:"true"`
	ConfirmPassword *string `json:"confirm_password"`
}

// EndpointRegister handles the 'POST /v1/auth/register' endpoint
func (service *Service) EndpointRegister(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := validation.UnmarshalBody[endpointRegisterRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}
	if errs := user.ValidateRegistration(*payload.Name, *payload.Age, *payload.Email, *payload.Password, payload.ConfirmPassword); len(errs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, userValidationErrors(errs...)...)
		return
	}

	obj, ok := service.createUser(writer, request, *payload.Name, *payload.Age, *payload.Email, *payload.Password, user.EmptyRoleSet.With(user.RoleUser))
	if !ok {
		return
	}

	token, _, err := service.Issuer.Issue(obj)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, &endpointAuthResponse{
		Result: true,
		Token:  token,
		User:   obj,
		Roles:  obj.RoleSet().Names(),
	})
}

type endpointLoginRequestPayload struct {
	Email    *string `json:"email" required:"true"`
	Password *string `json:"password" required:"true"`
}

// EndpointLogin handles the 'POST /v1/auth/login' endpoint.
// The issued token is returned in the response body and additionally set as an HTTP-only cookie.
func (service *Service) EndpointLogin(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := validation.UnmarshalBody[endpointLoginRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	obj, err := service.Storage.Users().GetByEmail(request.Context(), *payload.Email)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		requestLogger(request).Debug().Msg("login attempt for unknown email address")
		service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrInvalidCredentials)
		return
	}

	correct, err := auth.CheckPassword(obj.PasswordHash, *payload.Password)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if !correct {
		requestLogger(request).Debug().Str("user_id", obj.ID).Msg("login attempt with wrong password")
		service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrInvalidCredentials)
		return
	}

	token, claims, err := service.Issuer.Issue(obj)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameToken,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(service.Issuer.Lifetime().Seconds()),
		Secure:   service.Config.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	requestLogger(request).Info().Str("user_id", obj.ID).Msg("user logged in")
	service.writer.WriteJSON(writer, &endpointAuthResponse{
		Result: true,
		Token:  token,
		User:   obj,
		Roles:  obj.RoleSet().Names(),
	})
}

// EndpointLogout handles the 'POST /v1/auth/logout' endpoint.
// The presented token is revoked until it expires on its own.
func (service *Service) EndpointLogout(writer http.ResponseWriter, request *http.Request) {
	claims := clientClaims(request)
	if err := service.Revocations.Revoke(request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	unsetCookie(writer, cookieNameToken, service.Config.SecureCookies)
	writer.WriteHeader(http.StatusNoContent)
}

func unsetCookie(writer http.ResponseWriter, name string, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
