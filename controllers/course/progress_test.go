package controllers

import (
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Notification{},
		&courseModels.CourseModule{},
		&courseModels.ModuleFile{},
		&courseModels.ModuleProgress{},
		&courseModels.ModuleFileProgress{},
		&courseModels.Certificate{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func requireFiberError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, code, fiberErr.Code)
	assert.Equal(t, message, fiberErr.Message)
}

func seedLearner(t *testing.T, db *gorm.DB) (models.User, models.Organization) {
	t.Helper()
	org := models.Organization{Name: "Org1", Type: models.PackageGroup, MaxUsers: 5, StartDate: time.Now().AddDate(0, 0, -7)}
	require.NoError(t, db.Create(&org).Error)
	user := models.User{Name: "Learner", Email: "learner@example.com", Password: "x", Role: models.RoleOrgUser, OrganizationID: &org.ID}
	require.NoError(t, db.Create(&user).Error)
	return user, org
}

func seedModules(t *testing.T, db *gorm.DB, orders ...int) []courseModels.CourseModule {
	t.Helper()
	modules := make([]courseModels.CourseModule, len(orders))
	for i, order := range orders {
		modules[i] = courseModels.CourseModule{Title: "Module", OrderIndex: order, DeadlineDays: 7}
		require.NoError(t, db.Create(&modules[i]).Error)
	}
	return modules
}

func seedFiles(t *testing.T, db *gorm.DB, moduleID uint, orders ...int) []courseModels.ModuleFile {
	t.Helper()
	files := make([]courseModels.ModuleFile, len(orders))
	for i, order := range orders {
		files[i] = courseModels.ModuleFile{ModuleID: moduleID, OrderIndex: order, MediaURL: "https://cdn.example.com/f.mp4"}
		require.NoError(t, db.Create(&files[i]).Error)
	}
	return files
}

func TestStartModuleIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)

	first, err := startModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusInProgress, first.Status)

	second, err := startModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "restart returns the same row")

	var count int64
	db.Model(&courseModels.ModuleProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestStartModuleNotFound(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)

	_, err := startModule(db, user.ID, 999)
	requireFiberError(t, err, fiber.StatusNotFound, "Module not found!")
}

func TestStartModuleAutoStartsFirstFile(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)
	files := seedFiles(t, db, modules[0].ID, 1, 2)

	_, err := startModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)

	var fileProgress courseModels.ModuleFileProgress
	require.NoError(t, db.Where("user_id = ? AND module_file_id = ?", user.ID, files[0].ID).First(&fileProgress).Error)
	assert.Equal(t, courseModels.StatusInProgress, fileProgress.Status)

	var count int64
	db.Model(&courseModels.ModuleFileProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count, "only the first file is seeded")
}

func TestCompleteModuleSequentialGate(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2, 3)

	_, err := completeModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)

	_, err = completeModule(db, user.ID, modules[2].ID)
	requireFiberError(t, err, fiber.StatusBadRequest, "Complete previous module first")

	_, err = completeModule(db, user.ID, modules[1].ID)
	require.NoError(t, err)

	_, err = completeModule(db, user.ID, modules[2].ID)
	require.NoError(t, err)
}

func TestCompleteModuleRequiresAllFiles(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)
	files := seedFiles(t, db, modules[0].ID, 1, 2, 3)

	_, err := completeModule(db, user.ID, modules[0].ID)
	requireFiberError(t, err, fiber.StatusBadRequest, "Complete all files in this module first")

	for _, f := range files {
		_, err := completeModuleFile(db, user.ID, f.ID)
		require.NoError(t, err)
	}

	var progress courseModels.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, modules[0].ID).First(&progress).Error)
	assert.Equal(t, courseModels.StatusCompleted, progress.Status, "last file completion promotes the module")
}

func TestCompleteModuleFileSequentialGate(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)
	files := seedFiles(t, db, modules[0].ID, 1, 2)

	_, err := completeModuleFile(db, user.ID, files[1].ID)
	requireFiberError(t, err, fiber.StatusBadRequest, "Complete previous file first")

	_, err = completeModuleFile(db, user.ID, files[0].ID)
	require.NoError(t, err)

	_, err = completeModuleFile(db, user.ID, files[1].ID)
	require.NoError(t, err)
}

func TestCompleteModuleBackfillsStart(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)

	progress, err := completeModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)
	require.NotNil(t, progress.StartedAt)
	require.NotNil(t, progress.CompletedAt)
}

func TestCertificateIssuedOnLastCompletion(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2, 3)

	for _, m := range modules {
		_, err := completeModule(db, user.ID, m.ID)
		require.NoError(t, err)
	}

	var certificate courseModels.Certificate
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&certificate).Error)
	assert.Equal(t, 3, certificate.TotalModules)
	assert.NotEmpty(t, certificate.SerialNumber)
}

func TestCertificateNotIssuedEarly(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2)

	_, err := completeModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestEnsureCertificateIssuedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1)

	_, err := completeModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)

	first := ensureCertificateIssued(db, user.ID, 1)
	require.NotNil(t, first)
	second := ensureCertificateIssued(db, user.ID, 1)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCertificateFreezesCurriculum(t *testing.T) {
	db := setupTestDB(t)
	user, org := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2, 3)

	for _, m := range modules {
		_, err := completeModule(db, user.ID, m.ID)
		require.NoError(t, err)
	}

	var certificate courseModels.Certificate
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&certificate).Error)

	// A module added after certification must stay invisible to this user
	module4 := courseModels.CourseModule{Title: "Module", OrderIndex: 4}
	module4.CreatedAt = certificate.IssuedAt.Add(time.Hour)
	require.NoError(t, db.Create(&module4).Error)

	views, err := getModulesForUser(db, user.ID, org.ID)
	require.NoError(t, err)
	assert.Len(t, views, 3)
	for _, view := range views {
		assert.NotEqual(t, module4.ID, view.ID)
	}

	summary, err := getCompletionSummary(db, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.AllCompleted)
	assert.Equal(t, 3, summary.CompletedCount)
	assert.Equal(t, 3, summary.TotalModules, "summary stays frozen at certification size")
}

func TestSummaryRetrofitsCertificate(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2)

	// Completed rows written before the certificate feature existed
	now := time.Now()
	for _, m := range modules {
		require.NoError(t, db.Create(&courseModels.ModuleProgress{
			UserID:      user.ID,
			ModuleID:    m.ID,
			Status:      courseModels.StatusCompleted,
			StartedAt:   &now,
			CompletedAt: &now,
		}).Error)
	}

	summary, err := getCompletionSummary(db, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.AllCompleted)
	require.NotNil(t, summary.Certificate, "reading the summary issues the missing certificate")

	var certificate courseModels.Certificate
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&certificate).Error)
	assert.Equal(t, 2, certificate.TotalModules)
}

func TestSummaryWithNoModules(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)

	summary, err := getCompletionSummary(db, user.ID)
	require.NoError(t, err)
	assert.False(t, summary.AllCompleted, "an empty curriculum never certifies")
	assert.Equal(t, 0, summary.TotalModules)
}

func TestGetModulesForUserDecoration(t *testing.T) {
	db := setupTestDB(t)
	user, org := seedLearner(t, db)
	modules := seedModules(t, db, 1, 2)
	seedFiles(t, db, modules[1].ID, 1, 2)

	_, err := completeModule(db, user.ID, modules[0].ID)
	require.NoError(t, err)

	views, err := getModulesForUser(db, user.ID, org.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, courseModels.StatusCompleted, views[0].Status)
	assert.True(t, views[0].IsActive)
	assert.True(t, views[1].IsActive)
	assert.Equal(t, courseModels.StatusNotStarted, views[1].Status)
	require.Len(t, views[1].Files, 2)
	assert.True(t, views[1].Files[0].IsActive)
	assert.False(t, views[1].Files[1].IsActive)

	// deadline = startDate + deadlineDays * orderIndex days
	expected := org.StartDate.AddDate(0, 0, modules[1].DeadlineDays*modules[1].OrderIndex)
	assert.WithinDuration(t, expected, views[1].Deadline, time.Second)
}

func TestGetModulesForUserUnknownOrganization(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLearner(t, db)

	_, err := getModulesForUser(db, user.ID, 999)
	requireFiberError(t, err, fiber.StatusNotFound, "Organization not found!")
}
