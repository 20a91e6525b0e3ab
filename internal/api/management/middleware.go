package management

import (
	"context"
	"net/http"
	"strings"

	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/user"
)

type contextKey int

const (
	contextKeyClaims contextKey = iota
	contextKeyUser
)

// MiddlewareVerifyToken makes sure that the requesting client has provided a valid, non-revoked access token that
// belongs to an existing user.
// Additionally, it injects the token claims and the user into the request context.
func (service *Service) MiddlewareVerifyToken(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, client, err := service.authenticate(request)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		if client == nil {
			service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrUnauthorized)
			return
		}
		next(writer, withClient(request, claims, client))
	}
}

// MiddlewareOptionalToken injects the token claims and the user into the request context if the requesting client has
// provided a valid access token.
// Anonymous clients, including those presenting an unusable token, pass through unchanged.
func (service *Service) MiddlewareOptionalToken(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, client, err := service.authenticate(request)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		if client != nil {
			request = withClient(request, claims, client)
		}
		next(writer, request)
	}
}

// MiddlewareRequireRoles makes sure that the authenticated user holds at least one of the given roles.
// It has to be chained after MiddlewareVerifyToken.
func (service *Service) MiddlewareRequireRoles(roles ...user.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			client := clientUser(request)
			if client == nil {
				service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrUnauthorized)
				return
			}
			if !client.RoleSet().HasAny(roles...) {
				service.writer.WriteErrors(writer, http.StatusForbidden, schema.ErrForbidden)
				return
			}
			next(writer, request)
		}
	}
}

// authenticate resolves the access token of a request.
// A nil user without an error means the client is anonymous.
func (service *Service) authenticate(request *http.Request) (*auth.Claims, *user.User, error) {
	raw := extractToken(request)
	if raw == "" {
		return nil, nil, nil
	}

	claims, err := service.Issuer.Verify(raw)
	if err != nil {
		requestLogger(request).Debug().Err(err).Msg("rejected access token")
		return nil, nil, nil
	}

	revoked, err := service.Revocations.IsRevoked(request.Context(), claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, nil
	}

	// Roles are taken from the stored user so that changes apply before the token expires
	client, err := service.Storage.Users().GetByID(request.Context(), claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return claims, client, nil
}

func extractToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if cookie, err := request.Cookie(cookieNameToken); err == nil {
		return cookie.Value
	}
	return ""
}

func withClient(request *http.Request, claims *auth.Claims, client *user.User) *http.Request {
	ctx := context.WithValue(request.Context(), contextKeyClaims, claims)
	ctx = context.WithValue(ctx, contextKeyUser, client)
	return request.WithContext(ctx)
}

func clientUser(request *http.Request) *user.User {
	client, _ := request.Context().Value(contextKeyUser).(*user.User)
	return client
}

func clientClaims(request *http.Request) *auth.Claims {
	claims, _ := request.Context().Value(contextKeyClaims).(*auth.Claims)
	return claims
}
