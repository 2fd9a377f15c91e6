package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateModule handles POST /modules
func CreateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*validators.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Order is the sequencing key; collisions are rejected, never renumbered
	var existing courseModels.CourseModule
	if err := database.Database.Db.Where("order_index = ?", reqData.OrderIndex).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module order already exists!", nil)
	}

	module := courseModels.CourseModule{
		Title:        reqData.Title,
		Description:  reqData.Description,
		OrderIndex:   reqData.OrderIndex,
		DeadlineDays: reqData.DeadlineDays,
		MediaType:    reqData.MediaType,
		MediaURL:     reqData.MediaURL,
		CreatedByID:  userID,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule handles PUT /modules/:id
func UpdateModule(c *fiber.Ctx) error {
	moduleID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	reqData, ok := c.Locals("validatedModuleUpdate").(*validators.UpdateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.CourseModule
	if err := database.Database.Db.Where("id = ?", moduleID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if reqData.OrderIndex != nil && *reqData.OrderIndex != module.OrderIndex {
		var existing courseModels.CourseModule
		if err := database.Database.Db.Where("order_index = ? AND id <> ?", *reqData.OrderIndex, module.ID).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module order already exists!", nil)
		}
		module.OrderIndex = *reqData.OrderIndex
	}
	if reqData.Title != nil {
		module.Title = *reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	if reqData.DeadlineDays != nil {
		module.DeadlineDays = *reqData.DeadlineDays
	}
	if reqData.MediaType != nil {
		module.MediaType = *reqData.MediaType
	}
	if reqData.MediaURL != nil {
		module.MediaURL = *reqData.MediaURL
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule handles DELETE /modules/:id. Progress rows referencing the
// module or its files go first so no orphaned rows survive.
func DeleteModule(c *fiber.Ctx) error {
	moduleID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	var module courseModels.CourseModule
	if err := database.Database.Db.Preload("Files").Where("id = ?", moduleID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	tx := database.Database.Db.Begin()

	if len(module.Files) > 0 {
		fileIDs := make([]uint, len(module.Files))
		for i, file := range module.Files {
			fileIDs[i] = file.ID
		}
		if err := tx.Unscoped().Where("module_file_id IN ?", fileIDs).Delete(&courseModels.ModuleFileProgress{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete file progress!", nil)
		}
	}
	if err := tx.Unscoped().Where("module_id = ?", module.ID).Delete(&courseModels.ModuleProgress{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module progress!", nil)
	}
	if err := tx.Unscoped().Where("module_id = ?", module.ID).Delete(&courseModels.ModuleFile{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module files!", nil)
	}
	if err := tx.Unscoped().Delete(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ListModules handles GET /modules (admin listing with files)
func ListModules(c *fiber.Ctx) error {
	var modules []courseModels.CourseModule
	if err := database.Database.Db.Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modules,
	})
}

// AddModuleFile handles POST /modules/:id/files. An omitted order appends
// after the current maximum; an explicit colliding order is rejected, same
// policy as module creation.
func AddModuleFile(c *fiber.Ctx) error {
	moduleID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	reqData, ok := c.Locals("validatedModuleFile").(*validators.AddModuleFileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.CourseModule
	if err := database.Database.Db.Where("id = ?", moduleID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		var existing courseModels.ModuleFile
		if err := database.Database.Db.Where("module_id = ? AND order_index = ?", module.ID, *reqData.OrderIndex).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File order already exists in this module!", nil)
		}
		orderIndex = *reqData.OrderIndex
	} else {
		var maxOrder int
		database.Database.Db.Model(&courseModels.ModuleFile{}).Where("module_id = ?", module.ID).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	file := courseModels.ModuleFile{
		ModuleID:   module.ID,
		OrderIndex: orderIndex,
		Title:      reqData.Title,
		MediaType:  reqData.MediaType,
		MediaURL:   reqData.MediaURL,
	}
	if err := database.Database.Db.Create(&file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module file created successfully!", file)
}

// UpdateModuleFile handles PUT /modules/files/:id. Reordering is blocked
// while any learner has progress on the module's files: the auto-started
// first file and the unlock walk both depend on a stable ordering.
func UpdateModuleFile(c *fiber.Ctx) error {
	fileID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file id!", nil)
	}

	reqData, ok := c.Locals("validatedModuleFileUpdate").(*validators.UpdateModuleFileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var file courseModels.ModuleFile
	if err := database.Database.Db.Where("id = ?", fileID).First(&file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module file not found!", nil)
	}

	if reqData.OrderIndex != nil && *reqData.OrderIndex != file.OrderIndex {
		var siblingIDs []uint
		database.Database.Db.Model(&courseModels.ModuleFile{}).Where("module_id = ?", file.ModuleID).Pluck("id", &siblingIDs)

		var inFlight int64
		database.Database.Db.Model(&courseModels.ModuleFileProgress{}).Where("module_file_id IN ?", siblingIDs).Count(&inFlight)
		if inFlight > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot reorder files with learner progress!", nil)
		}

		var existing courseModels.ModuleFile
		if err := database.Database.Db.Where("module_id = ? AND order_index = ? AND id <> ?", file.ModuleID, *reqData.OrderIndex, file.ID).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File order already exists in this module!", nil)
		}
		file.OrderIndex = *reqData.OrderIndex
	}
	if reqData.Title != nil {
		file.Title = *reqData.Title
	}
	if reqData.MediaType != nil {
		file.MediaType = *reqData.MediaType
	}
	if reqData.MediaURL != nil {
		file.MediaURL = *reqData.MediaURL
	}

	if err := database.Database.Db.Save(&file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module file updated successfully!", file)
}

// DeleteModuleFile handles DELETE /modules/files/:id
func DeleteModuleFile(c *fiber.Ctx) error {
	fileID, ok := paramsUint(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file id!", nil)
	}

	var file courseModels.ModuleFile
	if err := database.Database.Db.Where("id = ?", fileID).First(&file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module file not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Unscoped().Where("module_file_id = ?", file.ID).Delete(&courseModels.ModuleFileProgress{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete file progress!", nil)
	}
	if err := tx.Unscoped().Delete(&file).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module file!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module file deleted successfully!", nil)
}

// UploadMedia handles POST /modules/upload. Binary storage is delegated to
// the configured object-storage provider; this endpoint only returns the URL.
func UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	url, err := utils.UploadMedia(file)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully!", fiber.Map{
		"url": url,
	})
}
