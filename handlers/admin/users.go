package admin

import (
	"time"

	"clubrecruit/database"
	"clubrecruit/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type AddClubRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// AddClub provisions a club account
// POST /admin/addClub
func AddClub(c *fiber.Ctx) error {
	var req AddClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Name, email and password are required"})
	}

	db := database.GetDB()

	var existing models.Club
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Club with this email already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to hash password"})
	}

	club := models.Club{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hash),
		Description: req.Description,
		Website:     req.Website,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&club).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to create club"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "msg": "Club created", "club": club})
}

// GetClubs lists all club accounts
// GET /admin/getClubs
func GetClubs(c *fiber.Ctx) error {
	var clubs []models.Club
	if err := database.GetDB().Order("created_at DESC").Find(&clubs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve clubs"})
	}
	return c.JSON(fiber.Map{"success": true, "clubs": clubs})
}

// DeleteClub removes a club account
// POST /admin/deleteClub
func DeleteClub(c *fiber.Ctx) error {
	var req struct {
		ClubID uint `json:"clubId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ClubID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "clubId is required"})
	}

	result := database.GetDB().Delete(&models.Club{}, req.ClubID)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to delete club"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(fiber.Map{"success": false, "msg": "Club not found"})
	}
	return c.JSON(fiber.Map{"success": true, "msg": "Club deleted"})
}

// GetStudents lists all student accounts
// GET /admin/getStudents
func GetStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.GetDB().Order("created_at DESC").Find(&students).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve students"})
	}
	return c.JSON(fiber.Map{"success": true, "students": students})
}

// DeleteStudent removes a student account
// POST /admin/deleteStudent
func DeleteStudent(c *fiber.Ctx) error {
	var req struct {
		StudentID uint `json:"studentId"`
	}
	if err := c.BodyParser(&req); err != nil || req.StudentID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "studentId is required"})
	}

	result := database.GetDB().Delete(&models.Student{}, req.StudentID)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to delete student"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(fiber.Map{"success": false, "msg": "Student not found"})
	}
	return c.JSON(fiber.Map{"success": true, "msg": "Student deleted"})
}
