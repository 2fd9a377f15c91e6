package controllers

import (
	"fmt"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	userValidators "lms/validators/users"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.AppConfig = &config.Config{SaltRound: bcrypt.MinCost}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Organization{}))
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedOrganization(t *testing.T, db *gorm.DB, maxUsers int) models.Organization {
	t.Helper()
	org := models.Organization{Name: "Org1", Type: models.PackageGroup, MaxUsers: maxUsers, StartDate: time.Now()}
	require.NoError(t, db.Create(&org).Error)
	return org
}

func learnerRequest(i int) userValidators.CreateUserRequest {
	return userValidators.CreateUserRequest{
		Name:     fmt.Sprintf("Learner %d", i),
		Email:    fmt.Sprintf("learner%d@example.com", i),
		Password: "password123",
	}
}

func requireFiberError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, code, fiberErr.Code)
	assert.Equal(t, message, fiberErr.Message)
}

func TestCreateLearners(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrganization(t, db, 5)

	users, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(1)})
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, models.RoleOrgUser, users[0].Role)
	require.NotNil(t, users[0].OrganizationID)
	assert.Equal(t, org.ID, *users[0].OrganizationID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("password123")))
}

func TestSeatLimitBlocksCreation(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrganization(t, db, 2)

	for i := 1; i <= 2; i++ {
		_, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(i)})
		require.NoError(t, err)
	}

	_, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(3)})
	requireFiberError(t, err, fiber.StatusBadRequest, "Seat limit reached for your organization!")
}

func TestBulkSeatCheckIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrganization(t, db, 3)

	_, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(1)})
	require.NoError(t, err)

	// Two seats remain; asking for three must create nobody
	batch := []userValidators.CreateUserRequest{learnerRequest(2), learnerRequest(3), learnerRequest(4)}
	_, err = createLearners(db, org.ID, batch)
	requireFiberError(t, err, fiber.StatusBadRequest, "Seat limit reached for your organization!")

	var count int64
	db.Model(&models.User{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAdminsDoNotConsumeSeats(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrganization(t, db, 1)

	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleOrgAdmin, OrganizationID: &org.ID}
	require.NoError(t, db.Create(&admin).Error)

	_, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(1)})
	require.NoError(t, err)
}

func TestDuplicateEmailFailsWholeBatch(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrganization(t, db, 5)

	_, err := createLearners(db, org.ID, []userValidators.CreateUserRequest{learnerRequest(1)})
	require.NoError(t, err)

	batch := []userValidators.CreateUserRequest{learnerRequest(2), learnerRequest(1)}
	_, err = createLearners(db, org.ID, batch)
	requireFiberError(t, err, fiber.StatusBadRequest, "Email already registered: learner1@example.com")

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleOrgUser).Count(&count)
	assert.EqualValues(t, 1, count, "no partial batch writes")
}

func TestSeatCheckUnknownOrganization(t *testing.T) {
	db := setupTestDB(t)

	_, err := createLearners(db, 999, []userValidators.CreateUserRequest{learnerRequest(1)})
	requireFiberError(t, err, fiber.StatusNotFound, "Organization not found!")
}
