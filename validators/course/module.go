package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var mediaTypes = map[string]bool{
	"VIDEO":        true,
	"PRESENTATION": true,
}

type CreateModuleRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index"`
	DeadlineDays int    `json:"deadline_days"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
}

type UpdateModuleRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	OrderIndex   *int    `json:"order_index"`
	DeadlineDays *int    `json:"deadline_days"`
	MediaType    *string `json:"media_type"`
	MediaURL     *string `json:"media_url"`
}

type AddModuleFileRequest struct {
	Title      string `json:"title"`
	OrderIndex *int   `json:"order_index"`
	MediaType  string `json:"media_type"`
	MediaURL   string `json:"media_url"`
}

type UpdateModuleFileRequest struct {
	Title      *string `json:"title"`
	OrderIndex *int    `json:"order_index"`
	MediaType  *string `json:"media_type"`
	MediaURL   *string `json:"media_url"`
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.OrderIndex < 1 {
			errors["order_index"] = "Order index must be greater than 0!"
		}

		if reqData.DeadlineDays < 0 {
			errors["deadline_days"] = "Deadline days cannot be negative!"
		}

		if reqData.MediaType == "" {
			reqData.MediaType = "VIDEO"
		} else if !mediaTypes[reqData.MediaType] {
			errors["media_type"] = "Media type must be VIDEO or PRESENTATION!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.OrderIndex != nil && *reqData.OrderIndex < 1 {
			errors["order_index"] = "Order index must be greater than 0!"
		}
		if reqData.DeadlineDays != nil && *reqData.DeadlineDays < 0 {
			errors["deadline_days"] = "Deadline days cannot be negative!"
		}
		if reqData.MediaType != nil && !mediaTypes[*reqData.MediaType] {
			errors["media_type"] = "Media type must be VIDEO or PRESENTATION!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

func AddModuleFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddModuleFileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 1 {
			errors["order_index"] = "Order index must be greater than 0!"
		}
		if reqData.MediaType == "" {
			reqData.MediaType = "VIDEO"
		} else if !mediaTypes[reqData.MediaType] {
			errors["media_type"] = "Media type must be VIDEO or PRESENTATION!"
		}
		if strings.TrimSpace(reqData.MediaURL) == "" {
			errors["media_url"] = "Media URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleFile", reqData)
		return c.Next()
	}
}

func UpdateModuleFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateModuleFileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 1 {
			errors["order_index"] = "Order index must be greater than 0!"
		}
		if reqData.MediaType != nil && !mediaTypes[*reqData.MediaType] {
			errors["media_type"] = "Media type must be VIDEO or PRESENTATION!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleFileUpdate", reqData)
		return c.Next()
	}
}
