package management

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/api/validation"
	"github.com/skybi/user-service/internal/auth"
	"github.com/skybi/user-service/internal/query"
	"github.com/skybi/user-service/internal/user"
)

// EndpointGetUsers handles the
// 'GET /v1/users?PageNumber={number?:1}&PageSize={number?:10}&FilterExpression={string?}&OrderBy={string?:Id}&DisplayedFields={string?}'
// endpoint
func (service *Service) EndpointGetUsers(writer http.ResponseWriter, request *http.Request) {
	var validationErrs []*schema.Error

	pageNumber, validationErr := validation.QueryNumber(request, "PageNumber", false, 1, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	pageSize, validationErr := validation.QueryNumber(request, "PageSize", false, query.DefaultPageSize, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	req := query.NewRequest()
	req.PageNumber = int(pageNumber)
	req.SetPageSize(int(pageSize))
	req.FilterExpression = validation.QueryString(request, "FilterExpression")
	req.DisplayedFields = validation.QueryString(request, "DisplayedFields")
	if orderBy := validation.QueryString(request, "OrderBy"); orderBy != "" {
		req.OrderBy = orderBy
	}

	users, err := service.Storage.Users().List(request.Context())
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	page := query.Execute(users, req)
	service.writer.WriteJSON(writer, schema.BuildPaginatedResponse(page))
}

// EndpointGetUser handles the 'GET /v1/users/{id}?DisplayedFields={string?}' endpoint
func (service *Service) EndpointGetUser(writer http.ResponseWriter, request *http.Request) {
	obj, ok := service.lookupUser(writer, request)
	if !ok {
		return
	}
	service.writer.WriteJSON(writer, query.Shape(obj, validation.QueryString(request, "DisplayedFields")))
}

type endpointCreateUserRequestPayload struct {
	Name            *string   `json:"name" required:"true"`
	Age             *int      `json:"age" required:"true"`
	Email           *string   `json:"email" required:"true"`
	Password        *string   `json:"password" required:"true"`
	ConfirmPassword *string   `json:"confirm_password"`
	Roles           *[]string `json:"roles"`
}

// EndpointCreateUser handles the 'POST /v1/users' endpoint.
// Only administrators may assign roles other than the default one.
func (service *Service) EndpointCreateUser(writer http.ResponseWriter, request *http.Request) {
	// Unmarshal and validate the request body
	payload, validationErrs, err := validation.UnmarshalBody[endpointCreateUserRequestPayload](request)
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

	roles := user.EmptyRoleSet.With(user.RoleUser)
	if payload.Roles != nil {
		parsed, err := user.ParseRoleNames(*payload.Roles)
		if err != nil {
			service.writer.WriteErrors(writer, http.StatusBadRequest, roleErrors(err)...)
			return
		}
		roles = parsed
	}
	if roles.String() != user.DefaultRoles && !isAdmin(clientUser(request)) {
		service.writer.WriteErrors(writer, http.StatusForbidden, schema.ErrForbidden)
		return
	}

	obj, ok := service.createUser(writer, request, *payload.Name, *payload.Age, *payload.Email, *payload.Password, roles)
	if !ok {
		return
	}
	service.writer.WriteJSONCode(writer, http.StatusCreated, obj)
}

type endpointUpdateUserRequestPayload struct {
	Name     *string   `json:"name"`
	Age      *int      `json:"age"`
	Email    *string   `json:"email"`
	Password *string   `json:"password"`
	Roles    *[]string `json:"roles"`
}

// EndpointUpdateUser handles the 'PUT /v1/users/{id}' endpoint
func (service *Service) EndpointUpdateUser(writer http.ResponseWriter, request *http.Request) {
	obj, ok := service.lookupUser(writer, request)
	if !ok {
		return
	}

	// Unmarshal and validate the request body
	payload, validationErrs, err := validation.UnmarshalBody[endpointUpdateUserRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	// Construct the update action
	update := &user.Update{
		Name:  payload.Name,
		Age:   payload.Age,
		Email: payload.Email,
	}
	var propertyErrs []*user.ValidationError
	if payload.Name != nil {
		propertyErrs = append(propertyErrs, user.ValidateName(*payload.Name))
	}
	if payload.Age != nil {
		propertyErrs = append(propertyErrs, user.ValidateAge(*payload.Age))
	}
	if payload.Email != nil {
		propertyErrs = append(propertyErrs, user.ValidateEmail(*payload.Email))
	}
	if payload.Password != nil {
		propertyErrs = append(propertyErrs, user.ValidatePassword(*payload.Password))
	}
	if errs := userValidationErrors(propertyErrs...); len(errs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, errs...)
		return
	}
	if payload.Roles != nil {
		roles, err := user.ParseRoleNames(*payload.Roles)
		if err != nil {
			service.writer.WriteErrors(writer, http.StatusBadRequest, roleErrors(err)...)
			return
		}
		update.Roles = &roles
	}
	if payload.Password != nil {
		hash, err := auth.HashPassword(*payload.Password, service.Config.BcryptCost)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		update.PasswordHash = &hash
	}

	// Update the user and return the new one
	service.applyUpdate(writer, request, obj.ID, update)
}

// EndpointDeleteUser handles the 'DELETE /v1/users/{id}' endpoint
func (service *Service) EndpointDeleteUser(writer http.ResponseWriter, request *http.Request) {
	obj, ok := service.lookupUser(writer, request)
	if !ok {
		return
	}

	if err := service.Storage.Users().Delete(request.Context(), obj.ID); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	requestLogger(request).Info().Str("user_id", obj.ID).Msg("deleted user")
	writer.WriteHeader(http.StatusNoContent)
}

// EndpointGetSelfUser handles the 'GET /v1/me' endpoint
func (service *Service) EndpointGetSelfUser(writer http.ResponseWriter, request *http.Request) {
	service.writer.WriteJSON(writer, clientUser(request))
}

// lookupUser retrieves the user addressed by the 'id' URL parameter and writes a 404 response if it does not exist
func (service *Service) lookupUser(writer http.ResponseWriter, request *http.Request) (*user.User, bool) {
	id := chi.URLParam(request, "id")

	obj, err := service.Storage.Users().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return nil, false
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return nil, false
	}
	return obj, true
}

// createUser hashes the password and stores a new user, writing an error response on failure
func (service *Service) createUser(writer http.ResponseWriter, request *http.Request, name string, age int, email, password string, roles user.RoleSet) (*user.User, bool) {
	hash, err := auth.HashPassword(password, service.Config.BcryptCost)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return nil, false
	}

	obj, err := service.Storage.Users().Create(request.Context(), &user.Create{
		Name:         name,
		Age:          age,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			service.writer.WriteErrors(writer, http.StatusConflict, schema.ErrEmailTaken)
			return nil, false
		}
		service.writer.WriteInternalError(writer, err)
		return nil, false
	}

	requestLogger(request).Info().Str("user_id", obj.ID).Msg("created user")
	return obj, true
}

// applyUpdate updates a user and writes the new state
func (service *Service) applyUpdate(writer http.ResponseWriter, request *http.Request, id string, update *user.Update) {
	newObj, err := service.Storage.Users().Update(request.Context(), id, update)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			service.writer.WriteErrors(writer, http.StatusConflict, schema.ErrEmailTaken)
			return
		}
		service.writer.WriteInternalError(writer, err)
		return
	}
	if newObj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}
	service.writer.WriteJSON(writer, newObj)
}

func isAdmin(client *user.User) bool {
	return client != nil && client.RoleSet().HasAny(user.RoleAdmin, user.RoleSuperAdmin)
}
