package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FileView is a module file decorated with the caller's progress
type FileView struct {
	courseModels.ModuleFile
	Status      string     `json:"status"`
	IsActive    bool       `json:"is_active"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ModuleView is a module decorated with the caller's progress and deadline
type ModuleView struct {
	courseModels.CourseModule
	Files       []FileView `json:"files"`
	Status      string     `json:"status"`
	IsActive    bool       `json:"is_active"`
	Deadline    time.Time  `json:"deadline"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func loadProgressMaps(db *gorm.DB, userID uint) (map[uint]courseModels.ModuleProgress, map[uint]courseModels.ModuleFileProgress, error) {
	var moduleRows []courseModels.ModuleProgress
	if err := db.Where("user_id = ?", userID).Find(&moduleRows).Error; err != nil {
		return nil, nil, err
	}
	var fileRows []courseModels.ModuleFileProgress
	if err := db.Where("user_id = ?", userID).Find(&fileRows).Error; err != nil {
		return nil, nil, err
	}

	moduleMap := make(map[uint]courseModels.ModuleProgress, len(moduleRows))
	for _, row := range moduleRows {
		moduleMap[row.ModuleID] = row
	}
	fileMap := make(map[uint]courseModels.ModuleFileProgress, len(fileRows))
	for _, row := range fileRows {
		fileMap[row.ModuleFileID] = row
	}
	return moduleMap, fileMap, nil
}

// getModulesForUser builds the decorated module list for one learner.
// Certified users see the curriculum frozen at certification time: anything
// created after the certificate was issued is filtered out.
func getModulesForUser(db *gorm.DB, userID, organizationID uint) ([]ModuleView, error) {
	var organization models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", organizationID, false).First(&organization).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Organization not found!")
	}

	var certificate *courseModels.Certificate
	var cert courseModels.Certificate
	if err := db.Where("user_id = ?", userID).First(&cert).Error; err == nil {
		certificate = &cert
	}

	var modules []courseModels.CourseModule
	if err := db.Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Order("order_index asc").Find(&modules).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch modules!")
	}

	if certificate != nil {
		filtered := modules[:0]
		for _, module := range modules {
			if module.CreatedAt.After(certificate.IssuedAt) {
				continue
			}
			files := module.Files[:0]
			for _, file := range module.Files {
				if !file.CreatedAt.After(certificate.IssuedAt) {
					files = append(files, file)
				}
			}
			module.Files = files
			filtered = append(filtered, module)
		}
		modules = filtered
	}

	moduleRows, fileRows, err := loadProgressMaps(db, userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch progress!")
	}

	states := computeCourseState(modules, moduleRows, fileRows)

	views := make([]ModuleView, len(modules))
	for i, module := range modules {
		state := states[module.ID]

		files := make([]FileView, len(module.Files))
		for j, file := range module.Files {
			fs := state.Files[file.ID]
			files[j] = FileView{
				ModuleFile:  file,
				Status:      fs.Status,
				IsActive:    fs.IsActive,
				StartedAt:   fs.StartedAt,
				CompletedAt: fs.CompletedAt,
			}
		}

		module.Files = nil
		views[i] = ModuleView{
			CourseModule: module,
			Files:        files,
			Status:       state.Status,
			IsActive:     state.IsActive,
			Deadline:     organization.StartDate.AddDate(0, 0, module.DeadlineDays*module.OrderIndex),
			StartedAt:    state.StartedAt,
			CompletedAt:  state.CompletedAt,
		}
	}

	return views, nil
}

// GetPublicModules lists title/description/order for the marketing site
func GetPublicModules(c *fiber.Ctx) error {
	type PublicModule struct {
		ID          uint   `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	}

	var modules []PublicModule
	if err := database.Database.Db.Model(&courseModels.CourseModule{}).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modules,
	})
}

// GetMyModules returns the authenticated learner's decorated module list
func GetMyModules(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	if user.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User does not belong to an organization!", nil)
	}

	views, err := getModulesForUser(database.Database.Db, userID, *user.OrganizationID)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": views,
	})
}
