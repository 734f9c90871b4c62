package main

import (
	"log"
	"os"
	"time"

	"clubrecruit/database"
	"clubrecruit/handlers"
	"clubrecruit/handlers/admin"
	"clubrecruit/middleware"
	"clubrecruit/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Initialize services and handlers
	services.InitOTPService(services.NewMailerFromEnv())
	defer func() {
		if otp := services.GetOTPService(); otp != nil {
			otp.Stop()
		}
	}()
	handlers.InitHandlers()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// Student routes
	student := app.Group("/student")

	studentAuth := student.Group("")
	studentAuth.Use(middleware.AuthRateLimitMiddleware())
	studentAuth.Post("/sendOTP", handlers.SendOTP)
	studentAuth.Post("/signup", handlers.StudentSignup)
	studentAuth.Post("/login", handlers.StudentLogin)

	studentProtected := student.Group("")
	studentProtected.Use(middleware.StudentAuthMiddleware)
	studentProtected.Get("/getProfile", handlers.GetStudentProfile)
	studentProtected.Post("/editProfile", handlers.EditStudentProfile)
	studentProtected.Get("/getEvents", handlers.GetOpenEvents)
	studentProtected.Get("/getSessions", handlers.GetAllSessions)
	studentProtected.Post("/registerEvent", handlers.RegisterEvent)
	studentProtected.Get("/getEventDetails", handlers.GetEventDetails)
	studentProtected.Post("/addMemberOffer", handlers.AddMemberOffer)
	studentProtected.Post("/acceptMemberOffer", handlers.AcceptMemberOffer)
	studentProtected.Post("/declineMemberOffer", handlers.DeclineMemberOffer)
	studentProtected.Post("/addTeamName", handlers.AddTeamName)
	studentProtected.Post("/unregisteredAsCaptain", handlers.UnregisterAsCaptain)
	studentProtected.Get("/getMyRegistrations", handlers.GetMyRegistrations)

	// Club routes
	club := app.Group("/club")

	clubAuth := club.Group("")
	clubAuth.Use(middleware.AuthRateLimitMiddleware())
	clubAuth.Post("/login", handlers.ClubLogin)

	clubProtected := club.Group("")
	clubProtected.Use(middleware.ClubAuthMiddleware)
	clubProtected.Get("/getProfile", handlers.GetClubProfile)
	clubProtected.Post("/editProfile", handlers.EditClubProfile)
	clubProtected.Post("/addEvent", handlers.AddEvent)
	clubProtected.Get("/getEvents", handlers.GetClubEvents)
	clubProtected.Get("/getEvent", handlers.GetClubEvent)
	clubProtected.Post("/editEvent", handlers.EditEvent)
	clubProtected.Post("/deleteEvent", handlers.DeleteEvent)
	clubProtected.Post("/addSession", handlers.AddSession)
	clubProtected.Get("/getSessions", handlers.GetClubSessions)
	clubProtected.Post("/deleteSession", handlers.DeleteSession)
	clubProtected.Get("/getEventsRegisteredStudents", handlers.GetEventsRegisteredStudents)
	clubProtected.Post("/scheduleInterview", handlers.ScheduleInterview)
	clubProtected.Post("/selectStudentForRound", handlers.SelectStudentForRound)
	clubProtected.Post("/addRoundRemarks", handlers.AddRoundRemarks)
	clubProtected.Post("/finalizeStudent", handlers.FinalizeStudent)

	// Admin routes
	adminGroup := app.Group("/admin")
	adminGroup.Post("/login", admin.Login)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Post("/addClub", admin.AddClub)
	adminProtected.Get("/getClubs", admin.GetClubs)
	adminProtected.Post("/deleteClub", admin.DeleteClub)
	adminProtected.Get("/getStudents", admin.GetStudents)
	adminProtected.Post("/deleteStudent", admin.DeleteStudent)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("HTTP server starting on port %s", port)
	log.Printf("Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
