package userValidator

import (
	"fmt"
	"regexp"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BulkCreateUsersRequest struct {
	Users []CreateUserRequest `json:"users"`
}

func validateUserFields(reqData *CreateUserRequest, errors map[string]string, prefix string) {
	if strings.TrimSpace(reqData.Name) == "" {
		errors[prefix+"name"] = "Name is required!"
	}
	if reqData.Email == "" || !isValidEmail(reqData.Email) {
		errors[prefix+"email"] = "Invalid email!"
	}
	if len(strings.TrimSpace(reqData.Password)) < 8 {
		errors[prefix+"password"] = "Password must be at least 8 characters long!"
	}
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		validateUserFields(reqData, errors, "")

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

func BulkCreateUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BulkCreateUsersRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Users) == 0 {
			errors["users"] = "At least one user is required!"
		}
		for i := range reqData.Users {
			validateUserFields(&reqData.Users[i], errors, fmt.Sprintf("users[%d].", i))
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulkUsers", reqData)
		return c.Next()
	}
}
