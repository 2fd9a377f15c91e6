package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func loadModuleWithFiles(db *gorm.DB, moduleID uint) (*courseModels.CourseModule, error) {
	var module courseModels.CourseModule
	if err := db.Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Where("id = ?", moduleID).First(&module).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Module not found!")
	}
	return &module, nil
}

// startModule creates the learner's progress row if it does not exist yet.
// Calling it again returns the existing row untouched. When the module owns
// files, the first file is started as well so the file-level walk has a
// starting point.
func startModule(db *gorm.DB, userID, moduleID uint) (*courseModels.ModuleProgress, error) {
	module, err := loadModuleWithFiles(db, moduleID)
	if err != nil {
		return nil, err
	}

	var progress courseModels.ModuleProgress
	if err := db.Where("user_id = ? AND module_id = ?", userID, module.ID).First(&progress).Error; err == nil {
		return &progress, nil
	}

	now := time.Now()
	progress = courseModels.ModuleProgress{
		UserID:    userID,
		ModuleID:  module.ID,
		Status:    courseModels.StatusInProgress,
		StartedAt: &now,
	}
	if err := db.Create(&progress).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to start module!")
	}

	if len(module.Files) > 0 {
		first := module.Files[0]
		var fileProgress courseModels.ModuleFileProgress
		if err := db.Where("user_id = ? AND module_file_id = ?", userID, first.ID).First(&fileProgress).Error; err != nil {
			fileProgress = courseModels.ModuleFileProgress{
				UserID:       userID,
				ModuleFileID: first.ID,
				Status:       courseModels.StatusInProgress,
				StartedAt:    &now,
			}
			if err := db.Create(&fileProgress).Error; err != nil {
				return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to start module file!")
			}
		}
	}

	return &progress, nil
}

// completeModule marks the module completed after checking the sequential
// gate and, for modules with files, that every file is completed. Issues the
// certificate when this was the last outstanding module.
func completeModule(db *gorm.DB, userID, moduleID uint) (*courseModels.ModuleProgress, error) {
	module, err := loadModuleWithFiles(db, moduleID)
	if err != nil {
		return nil, err
	}

	// The gate checks the immediately preceding module by order
	var previous courseModels.CourseModule
	err = db.Where("order_index < ?", module.OrderIndex).Order("order_index desc").First(&previous).Error
	if err == nil {
		var prevProgress courseModels.ModuleProgress
		if err := db.Where("user_id = ? AND module_id = ? AND status = ?",
			userID, previous.ID, courseModels.StatusCompleted).First(&prevProgress).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Complete previous module first")
		}
	}

	if len(module.Files) > 0 {
		fileIDs := make([]uint, len(module.Files))
		for i, file := range module.Files {
			fileIDs[i] = file.ID
		}
		var completed int64
		db.Model(&courseModels.ModuleFileProgress{}).
			Where("user_id = ? AND module_file_id IN ? AND status = ?", userID, fileIDs, courseModels.StatusCompleted).
			Count(&completed)
		if completed != int64(len(module.Files)) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Complete all files in this module first")
		}
	}

	progress, err := completeModuleRow(db, userID, module.ID)
	if err != nil {
		return nil, err
	}

	var totalModules int64
	db.Model(&courseModels.CourseModule{}).Count(&totalModules)
	ensureCertificateIssued(db, userID, int(totalModules))

	return progress, nil
}

// completeModuleRow upserts the progress row to COMPLETED, backfilling
// StartedAt when the module was never explicitly started.
func completeModuleRow(db *gorm.DB, userID, moduleID uint) (*courseModels.ModuleProgress, error) {
	now := time.Now()

	var progress courseModels.ModuleProgress
	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error; err != nil {
		progress = courseModels.ModuleProgress{
			UserID:      userID,
			ModuleID:    moduleID,
			Status:      courseModels.StatusCompleted,
			StartedAt:   &now,
			CompletedAt: &now,
		}
		if err := db.Create(&progress).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to complete module!")
		}
		return &progress, nil
	}

	progress.Status = courseModels.StatusCompleted
	progress.CompletedAt = &now
	if progress.StartedAt == nil {
		progress.StartedAt = &now
	}
	if err := db.Save(&progress).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to complete module!")
	}
	return &progress, nil
}

func loadFileWithSiblings(db *gorm.DB, fileID uint) (*courseModels.ModuleFile, []courseModels.ModuleFile, error) {
	var file courseModels.ModuleFile
	if err := db.Where("id = ?", fileID).First(&file).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Module file not found!")
	}
	var siblings []courseModels.ModuleFile
	if err := db.Where("module_id = ?", file.ModuleID).Order("order_index asc").Find(&siblings).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch module files!")
	}
	return &file, siblings, nil
}

// ensureModuleInProgress creates the parent module's progress row lazily the
// first time any of its files is touched.
func ensureModuleInProgress(db *gorm.DB, userID, moduleID uint) {
	var progress courseModels.ModuleProgress
	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error; err != nil {
		now := time.Now()
		db.Create(&courseModels.ModuleProgress{
			UserID:    userID,
			ModuleID:  moduleID,
			Status:    courseModels.StatusInProgress,
			StartedAt: &now,
		})
	}
}

// startModuleFile mirrors startModule for a single file
func startModuleFile(db *gorm.DB, userID, fileID uint) (*courseModels.ModuleFileProgress, error) {
	file, _, err := loadFileWithSiblings(db, fileID)
	if err != nil {
		return nil, err
	}

	var progress courseModels.ModuleFileProgress
	if err := db.Where("user_id = ? AND module_file_id = ?", userID, file.ID).First(&progress).Error; err == nil {
		return &progress, nil
	}

	now := time.Now()
	progress = courseModels.ModuleFileProgress{
		UserID:       userID,
		ModuleFileID: file.ID,
		Status:       courseModels.StatusInProgress,
		StartedAt:    &now,
	}
	if err := db.Create(&progress).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to start module file!")
	}

	ensureModuleInProgress(db, userID, file.ModuleID)

	return &progress, nil
}

// completeModuleFile marks one file completed after checking the in-module
// gate. When this was the last file of its module the parent module is
// promoted to COMPLETED and the certificate check runs against the global
// module count.
func completeModuleFile(db *gorm.DB, userID, fileID uint) (*courseModels.ModuleFileProgress, error) {
	file, siblings, err := loadFileWithSiblings(db, fileID)
	if err != nil {
		return nil, err
	}

	var previous *courseModels.ModuleFile
	for i := range siblings {
		if siblings[i].OrderIndex < file.OrderIndex {
			if previous == nil || siblings[i].OrderIndex > previous.OrderIndex {
				previous = &siblings[i]
			}
		}
	}
	if previous != nil {
		var prevProgress courseModels.ModuleFileProgress
		if err := db.Where("user_id = ? AND module_file_id = ? AND status = ?",
			userID, previous.ID, courseModels.StatusCompleted).First(&prevProgress).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Complete previous file first")
		}
	}

	now := time.Now()
	var progress courseModels.ModuleFileProgress
	if err := db.Where("user_id = ? AND module_file_id = ?", userID, file.ID).First(&progress).Error; err != nil {
		progress = courseModels.ModuleFileProgress{
			UserID:       userID,
			ModuleFileID: file.ID,
			Status:       courseModels.StatusCompleted,
			StartedAt:    &now,
			CompletedAt:  &now,
		}
		if err := db.Create(&progress).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to complete module file!")
		}
	} else {
		progress.Status = courseModels.StatusCompleted
		progress.CompletedAt = &now
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
		if err := db.Save(&progress).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to complete module file!")
		}
	}

	ensureModuleInProgress(db, userID, file.ModuleID)

	fileIDs := make([]uint, len(siblings))
	for i, sibling := range siblings {
		fileIDs[i] = sibling.ID
	}
	var completed int64
	db.Model(&courseModels.ModuleFileProgress{}).
		Where("user_id = ? AND module_file_id IN ? AND status = ?", userID, fileIDs, courseModels.StatusCompleted).
		Count(&completed)

	if completed == int64(len(siblings)) {
		if _, err := completeModuleRow(db, userID, file.ModuleID); err != nil {
			return nil, err
		}
		var totalModules int64
		db.Model(&courseModels.CourseModule{}).Count(&totalModules)
		ensureCertificateIssued(db, userID, int(totalModules))
	}

	return &progress, nil
}

// --- Handlers ---

func paramsUint(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// StartModule handles POST /modules/me/:id/start
func StartModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	progress, err := startModule(database.Database.Db, userID, moduleID)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module started successfully!", progress)
}

// CompleteModule handles POST /modules/me/:id/complete
func CompleteModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	progress, err := completeModule(database.Database.Db, userID, moduleID)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module completed successfully!", progress)
}

// StartModuleFile handles POST /modules/me/files/:id/start
func StartModuleFile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	fileID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file id!", nil)
	}

	progress, err := startModuleFile(database.Database.Db, userID, fileID)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module file started successfully!", progress)
}

// CompleteModuleFile handles POST /modules/me/files/:id/complete
func CompleteModuleFile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	fileID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file id!", nil)
	}

	progress, err := completeModuleFile(database.Database.Db, userID, fileID)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module file completed successfully!", progress)
}
