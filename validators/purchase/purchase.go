package purchaseValidator

import (
	"regexp"
	"strings"

	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

var packageTypes = map[string]bool{
	models.PackageSingle:      true,
	models.PackageGroup:       true,
	models.PackageInstitution: true,
}

type CreatePurchaseRequest struct {
	PackageType      string `json:"package_type"`
	OrganizationName string `json:"organization_name"`
	InstituteName    string `json:"institute_name"`
	RoleAtSchool     string `json:"role_at_school"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

func CreatePurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePurchaseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !packageTypes[reqData.PackageType] {
			errors["package_type"] = "Package type must be SINGLE, GROUP or INSTITUTION!"
		}

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		// Institutions are named after the institute, so it must be given
		if reqData.PackageType == models.PackageInstitution && strings.TrimSpace(reqData.InstituteName) == "" {
			errors["institute_name"] = "Institute name is required for institution packages!"
		}
		if reqData.PackageType != models.PackageInstitution && strings.TrimSpace(reqData.OrganizationName) == "" {
			errors["organization_name"] = "Organization name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPurchase", reqData)
		return c.Next()
	}
}
