package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	courseModels "lms/models/course"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func adminTestApp(adminID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", adminID)
		return c.Next()
	})
	app.Post("/modules", courseValidators.CreateModule(), CreateModule)
	app.Put("/modules/:id", courseValidators.UpdateModule(), UpdateModule)
	app.Delete("/modules/:id", DeleteModule)
	app.Post("/modules/:id/files", courseValidators.AddModuleFile(), AddModuleFile)
	app.Put("/modules/files/:id", courseValidators.UpdateModuleFile(), UpdateModuleFile)
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestCreateModuleRejectsOrderCollision(t *testing.T) {
	db := setupTestDB(t)
	seedModules(t, db, 1)
	app := adminTestApp(1)

	resp, envelope := jsonRequest(t, app, "POST", "/modules", fiber.Map{
		"title":       "Fire Safety",
		"order_index": 1,
		"media_type":  "VIDEO",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Module order already exists!", envelope["message"])

	resp, _ = jsonRequest(t, app, "POST", "/modules", fiber.Map{
		"title":       "Fire Safety",
		"order_index": 2,
		"media_type":  "VIDEO",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestUpdateModuleRejectsOrderCollision(t *testing.T) {
	db := setupTestDB(t)
	modules := seedModules(t, db, 1, 2)
	app := adminTestApp(1)

	resp, envelope := jsonRequest(t, app, "PUT", moduleURL(modules[1].ID), fiber.Map{
		"order_index": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Module order already exists!", envelope["message"])

	// Same order on itself is a no-op, not a collision
	resp, _ = jsonRequest(t, app, "PUT", moduleURL(modules[1].ID), fiber.Map{
		"order_index": 2,
		"title":       "Renamed",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var module courseModels.CourseModule
	require.NoError(t, db.First(&module, modules[1].ID).Error)
	assert.Equal(t, "Renamed", module.Title)
}

func TestAddModuleFileAppendsWhenOrderOmitted(t *testing.T) {
	db := setupTestDB(t)
	modules := seedModules(t, db, 1)
	seedFiles(t, db, modules[0].ID, 1, 2)
	app := adminTestApp(1)

	resp, _ := jsonRequest(t, app, "POST", moduleURL(modules[0].ID)+"/files", fiber.Map{
		"title":      "Chapter 3",
		"media_type": "VIDEO",
		"media_url":  "https://cdn.example.com/c3.mp4",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var file courseModels.ModuleFile
	require.NoError(t, db.Where("module_id = ? AND title = ?", modules[0].ID, "Chapter 3").First(&file).Error)
	assert.Equal(t, 3, file.OrderIndex)
}

func TestAddModuleFileRejectsExplicitCollision(t *testing.T) {
	db := setupTestDB(t)
	modules := seedModules(t, db, 1)
	seedFiles(t, db, modules[0].ID, 1)
	app := adminTestApp(1)

	resp, envelope := jsonRequest(t, app, "POST", moduleURL(modules[0].ID)+"/files", fiber.Map{
		"title":       "Duplicate",
		"order_index": 1,
		"media_type":  "VIDEO",
		"media_url":   "https://cdn.example.com/d.mp4",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "File order already exists in this module!", envelope["message"])
}

func TestReorderBlockedWithLearnerProgress(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)
	files := seedFiles(t, db, modules[0].ID, 1, 2)
	app := adminTestApp(1)

	_, err := startModuleFile(db, user.ID, files[0].ID)
	require.NoError(t, err)

	resp, envelope := jsonRequest(t, app, "PUT", fileURL(files[1].ID), fiber.Map{
		"order_index": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot reorder files with learner progress!", envelope["message"])

	// Non-order edits stay allowed
	resp, _ = jsonRequest(t, app, "PUT", fileURL(files[1].ID), fiber.Map{
		"title": "Renamed chapter",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteModuleCascades(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2)
	files := seedFiles(t, db, modules[0].ID, 1)
	app := adminTestApp(1)

	_, err := completeModuleFile(db, user.ID, files[0].ID)
	require.NoError(t, err)

	resp, _ := jsonRequest(t, app, "DELETE", moduleURL(modules[0].ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assertEmptyTable(t, db, &courseModels.ModuleFile{})
	assertEmptyTable(t, db, &courseModels.ModuleFileProgress{})
	assertEmptyTable(t, db, &courseModels.ModuleProgress{})

	// The remaining module is untouched and its order can now be reused
	resp, _ = jsonRequest(t, app, "POST", "/modules", fiber.Map{
		"title":       "Replacement",
		"order_index": 1,
		"media_type":  "VIDEO",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func moduleURL(id uint) string {
	return "/modules/" + strconv.FormatUint(uint64(id), 10)
}

func fileURL(id uint) string {
	return "/modules/files/" + strconv.FormatUint(uint64(id), 10)
}

func assertEmptyTable(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
