package main

import (
	"log"

	"lms/config"
	"lms/database"
	adminRoutes "lms/routers/adminRoutes"
	authRoutes "lms/routers/authRoutes"
	contactRoutes "lms/routers/contactRoutes"
	courseRoutes "lms/routers/courseRoutes"
	notificationRoutes "lms/routers/notificationRoutes"
	purchaseRoutes "lms/routers/purchaseRoutes"
	userRoutes "lms/routers/userRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	database.SeedBootstrapAdmin()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	purchaseRoutes.SetupPurchaseRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	userRoutes.SetupUserRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	contactRoutes.SetupContactRoutes(app)

	utils.InitializeDeadlineScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
