package management

import (
	"net/http"

	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/api/validation"
	"github.com/skybi/user-service/internal/user"
)

type endpointUserRolesResponse struct {
	Roles []string `json:"roles"`
}

// EndpointGetUserRoles handles the 'GET /v1/users/{id}/roles' endpoint
func (service *Service) EndpointGetUserRoles(writer http.ResponseWriter, request *http.Request) {
	obj, ok := service.lookupUser(writer, request)
	if !ok {
		return
	}
	service.writer.WriteJSON(writer, &endpointUserRolesResponse{
		Roles: obj.RoleSet().Names(),
	})
}

type endpointSetUserRolesRequestPayload struct {
	Roles *[]string `json:"roles" required:"true"`
}

// EndpointSetUserRoles handles the 'PUT /v1/users/{id}/roles' endpoint.
// The given roles replace the current ones; an empty list resets the user to the default role.
func (service *Service) EndpointSetUserRoles(writer http.ResponseWriter, request *http.Request) {
	obj, ok := service.lookupUser(writer, request)
	if !ok {
		return
	}

	payload, validationErrs, err := validation.UnmarshalBody[endpointSetUserRolesRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	roles, err := user.ParseRoleNames(*payload.Roles)
	if err != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, roleErrors(err)...)
		return
	}

	newObj, err := service.Storage.Users().Update(request.Context(), obj.ID, &user.Update{Roles: &roles})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if newObj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	requestLogger(request).Info().Str("user_id", obj.ID).Str("roles", roles.String()).Msg("changed user roles")
	service.writer.WriteJSON(writer, &endpointUserRolesResponse{
		Roles: newObj.RoleSet().Names(),
	})
}
