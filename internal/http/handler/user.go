package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"userregistry/internal/model"
	"userregistry/internal/repository"
	"userregistry/internal/service"
)

const (
	defaultPageSize = 20
	listCacheMaxAge = "public, max-age=60"
)

type createUserRequest struct {
	SSN         string `json:"ssn" validate:"required,max=255"`
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

// listUsersRequest is read from the JSON body first, then from the query string.
type listUsersRequest struct {
	CurrentPage int    `json:"current_page" query:"current_page" validate:"gte=1"`
	PageSize    int    `json:"page_size" query:"page_size" validate:"gte=1,lte=100"`
	FirstName   string `json:"first_name" query:"first_name"`
	LastName    string `json:"last_name" query:"last_name"`
	DateOfBirth string `json:"date_of_birth" query:"date_of_birth"`
}

func (r listUsersRequest) filter() (repository.UserFilter, error) {
	var f repository.UserFilter
	if r.FirstName != "" {
		f.FirstName = &r.FirstName
	}
	if r.LastName != "" {
		f.LastName = &r.LastName
	}
	if r.DateOfBirth != "" {
		d, err := model.ParseDate(r.DateOfBirth)
		if err != nil {
			return f, err
		}
		f.DateOfBirth = &d
	}
	return f, nil
}

func invalidDate(field string) []ValidationError {
	return []ValidationError{{Field: field, Message: "Expected an ISO date (YYYY-MM-DD)", Type: "date"}}
}

// CreateUser registers a user.
//
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce plain
// @Param user body createUserRequest true "User to register"
// @Success 201 {string} string "OK"
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /users [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object.")
		}
		if details := validateRequest(req); details != nil {
			return writeValidationError(c, details)
		}
		dob, err := model.ParseDate(req.DateOfBirth)
		if err != nil {
			return writeValidationError(c, invalidDate("date_of_birth"))
		}

		err = svc.Add(c.UserContext(), service.NewUser{
			SSN:         req.SSN,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: dob,
		})
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).SendString("OK")
		case errors.Is(err, service.ErrUserIsUnderage):
			return writeError(c, fiber.StatusBadRequest, "USER_UNDERAGE", "User is underage.")
		case errors.Is(err, repository.ErrDuplicateKey):
			return writeError(c, fiber.StatusConflict, "USER_EXISTS", "User already exists.")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error.")
		}
	}
}

// GetUser returns one user by SSN.
//
// @Summary Get a user
// @Tags users
// @Produce json
// @Param ssn path string true "Social security number"
// @Success 201 {object} model.User
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /users/{ssn} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.Get(c.UserContext(), c.Params("ssn"))
		if err != nil {
			if errors.Is(err, service.ErrUserDoesNotExist) {
				return writeError(c, fiber.StatusNotFound, "USER_NOT_FOUND", "User does not exist.")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error.")
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// ListUsers returns one page of users matching the optional filters.
//
// @Summary List users
// @Tags users
// @Produce json
// @Param current_page query int false "1-based page number" default(1)
// @Param page_size query int false "Users per page" default(20) maximum(100)
// @Param first_name query string false "Exact first name"
// @Param last_name query string false "Exact last name"
// @Param date_of_birth query string false "Exact date of birth (YYYY-MM-DD)"
// @Success 201 {object} service.UserList
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := listUsersRequest{CurrentPage: 1, PageSize: defaultPageSize}
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object.")
			}
		}
		if err := c.QueryParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "Invalid query parameters.")
		}
		if details := validateRequest(req); details != nil {
			return writeValidationError(c, details)
		}
		filter, err := req.filter()
		if err != nil {
			return writeValidationError(c, invalidDate("date_of_birth"))
		}

		res, err := svc.List(c.UserContext(), service.ListQuery{
			CurrentPage: req.CurrentPage,
			PageSize:    req.PageSize,
			Filter:      filter,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidPagination) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", "Invalid pagination.")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error.")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
