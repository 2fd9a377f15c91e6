package controllers

import (
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	purchaseValidators "lms/validators/purchase"

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

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.PackagePrice{},
		&models.PackagePurchase{},
	))
	database.Database = database.DbInstance{Db: db}
	return db
}

func purchaseRequest(packageType string) *purchaseValidators.CreatePurchaseRequest {
	return &purchaseValidators.CreatePurchaseRequest{
		PackageType:      packageType,
		OrganizationName: "Acme Corp",
		Name:             "Jordan Blake",
		Email:            "jordan@acme.com",
		Password:         "password123",
	}
}

func TestGroupPurchaseCreatesAdmin(t *testing.T) {
	db := setupTestDB(t)

	result, err := createPurchase(db, purchaseRequest(models.PackageGroup))
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", result.Organization.Name)
	assert.Equal(t, models.PackageGroup, result.Organization.Type)
	assert.Equal(t, 5, result.Organization.MaxUsers)
	assert.False(t, result.Organization.StartDate.IsZero())

	assert.Equal(t, models.RoleOrgAdmin, result.Admin.Role)
	require.NotNil(t, result.Admin.OrganizationID)
	assert.Equal(t, result.Organization.ID, *result.Admin.OrganizationID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.Admin.Password), []byte("password123")))

	assert.Equal(t, result.Organization.ID, result.Purchase.OrganizationID)
	assert.Equal(t, result.Admin.ID, result.Purchase.PurchasedByID)
}

func TestSinglePurchaseBuyerIsLearner(t *testing.T) {
	db := setupTestDB(t)

	result, err := createPurchase(db, purchaseRequest(models.PackageSingle))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Organization.MaxUsers)
	assert.Equal(t, models.RoleOrgUser, result.Admin.Role, "a one-seat package has nobody to administer")
}

func TestInstitutionPurchaseNaming(t *testing.T) {
	db := setupTestDB(t)

	reqData := purchaseRequest(models.PackageInstitution)
	reqData.InstituteName = "Riverside High"
	reqData.RoleAtSchool = "Principal"

	result, err := createPurchase(db, reqData)
	require.NoError(t, err)

	assert.Equal(t, "Riverside High", result.Organization.Name)
	assert.Equal(t, 30, result.Organization.MaxUsers)
	assert.Equal(t, "Jordan Blake (Principal)", result.Admin.Name)
}

func TestRoleAtSchoolNotRepeated(t *testing.T) {
	db := setupTestDB(t)

	reqData := purchaseRequest(models.PackageInstitution)
	reqData.InstituteName = "Riverside High"
	reqData.Name = "Principal Blake"
	reqData.RoleAtSchool = "Principal"

	result, err := createPurchase(db, reqData)
	require.NoError(t, err)
	assert.Equal(t, "Principal Blake", result.Admin.Name)
}

func TestPriceListOverridesDefaults(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.PackagePrice{
		PackageType: models.PackageGroup,
		MaxUsers:    10,
		Amount:      499.0,
		Currency:    "EUR",
	}).Error)

	result, err := createPurchase(db, purchaseRequest(models.PackageGroup))
	require.NoError(t, err)

	assert.Equal(t, 10, result.Organization.MaxUsers)
	assert.Equal(t, 499.0, result.Purchase.Amount)
	assert.Equal(t, "EUR", result.Purchase.Currency)
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)

	_, err := createPurchase(db, purchaseRequest(models.PackageGroup))
	require.NoError(t, err)

	_, err = createPurchase(db, purchaseRequest(models.PackageSingle))
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Equal(t, "Email already registered!", fiberErr.Message)

	var orgCount int64
	db.Model(&models.Organization{}).Count(&orgCount)
	assert.EqualValues(t, 1, orgCount, "rejected purchase writes nothing")
}
