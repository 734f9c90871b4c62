// handlers/auth.go - Student/Club authentication
package handlers

import (
	"os"
	"time"

	"clubrecruit/database"
	"clubrecruit/middleware"
	"clubrecruit/models"
	"clubrecruit/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const otpPurposeSignup = "student-signup"

type SendOTPRequest struct {
	Email string `json:"email"`
}

type StudentSignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	RollNumber string `json:"roll_number"`
	Branch     string `json:"branch"`
	Year       int    `json:"year"`
	Phone      string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTP issues a signup verification code to the student's email
// POST /student/sendOTP
func SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Email is required"})
	}

	db := database.GetDB()
	var count int64
	db.Model(&models.Student{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.JSON(fiber.Map{"success": false, "msg": "Account already exists for this email"})
	}

	if err := services.GetOTPService().Issue(req.Email, otpPurposeSignup); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to send OTP"})
	}

	return c.JSON(fiber.Map{"success": true, "msg": "OTP sent"})
}

// StudentSignup creates a student account after OTP verification
// POST /student/signup
func StudentSignup(c *fiber.Ctx) error {
	var req StudentSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Name, email and password required"})
	}
	if len(req.Password) < 6 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Password must be at least 6 characters"})
	}

	if err := services.GetOTPService().Verify(req.Email, otpPurposeSignup, req.OTP); err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid or expired OTP"})
	}

	db := database.GetDB()

	var existing models.Student
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Account already exists for this email"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to hash password"})
	}

	student := models.Student{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashedPassword),
		RollNumber: req.RollNumber,
		Branch:     req.Branch,
		Year:       req.Year,
		Phone:      req.Phone,
		Verified:   true,
		CreatedAt:  time.Now(),
	}

	if err := db.Create(&student).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to create account"})
	}

	token, err := generateToken(student.ID, student.Email, middleware.RoleStudent)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"student": student,
	})
}

// StudentLogin authenticates a student
// POST /student/login
func StudentLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Email and password required"})
	}

	db := database.GetDB()

	var student models.Student
	if err := db.Where("email = ?", req.Email).First(&student).Error; err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.Password)); err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	db.Model(&student).Update("last_login", time.Now())

	token, err := generateToken(student.ID, student.Email, middleware.RoleStudent)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"student": student,
	})
}

// ClubLogin authenticates a club account (provisioned by admin)
// POST /club/login
func ClubLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Email and password required"})
	}

	db := database.GetDB()

	var club models.Club
	if err := db.Where("email = ?", req.Email).First(&club).Error; err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(club.Password), []byte(req.Password)); err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	token, err := generateToken(club.ID, club.Email, middleware.RoleClub)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"club":    club,
	})
}

// Helper functions

func generateToken(id uint, email, role string) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"user_id": id,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 168).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
