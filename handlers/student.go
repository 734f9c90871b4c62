// handlers/student.go - Student-side HTTP handlers
package handlers

import (
	"errors"
	"strconv"
	"time"

	"clubrecruit/database"
	"clubrecruit/middleware"
	"clubrecruit/models"
	"clubrecruit/services"

	"github.com/gofiber/fiber/v2"
)

var (
	registrationService *services.RegistrationService
	eventService        *services.EventService
)

// InitHandlers wires the handler package to its services
func InitHandlers() {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}
	registrationService = services.NewRegistrationService(db)
	eventService = services.NewEventService(db)
}

// domainFail maps a service error to the {success:false, msg} envelope. Domain
// failures keep HTTP 200; callers branch on the success field.
func domainFail(c *fiber.Ctx, err error) error {
	return c.JSON(fiber.Map{"success": false, "msg": err.Error()})
}

func queryEventID(c *fiber.Ctx) (uint, error) {
	raw := c.Query("eventId")
	if raw == "" {
		return 0, errors.New("eventId query parameter is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("invalid eventId")
	}
	return uint(id), nil
}

// ================== PROFILE ==================

// GetStudentProfile returns the authenticated student's profile
// GET /student/getProfile
func GetStudentProfile(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var student models.Student
	if err := database.GetDB().First(&student, studentID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "msg": "Student not found"})
	}

	return c.JSON(fiber.Map{"success": true, "student": student})
}

// EditStudentProfile updates mutable profile fields
// POST /student/editProfile
func EditStudentProfile(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		Name       string `json:"name"`
		RollNumber string `json:"roll_number"`
		Branch     string `json:"branch"`
		Year       int    `json:"year"`
		Phone      string `json:"phone"`
		ResumeURL  string `json:"resume_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.RollNumber != "" {
		updates["roll_number"] = req.RollNumber
	}
	if req.Branch != "" {
		updates["branch"] = req.Branch
	}
	if req.Year != 0 {
		updates["year"] = req.Year
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.ResumeURL != "" {
		updates["resume_url"] = req.ResumeURL
	}

	if err := database.GetDB().Model(&models.Student{}).
		Where("id = ?", studentID).
		Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Profile updated"})
}

// ================== CATALOG ==================

// GetOpenEvents lists events still open for registration
// GET /student/getEvents
func GetOpenEvents(c *fiber.Ctx) error {
	events, err := eventService.OpenEvents()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve events"})
	}
	return c.JSON(fiber.Map{"success": true, "events": events})
}

// GetAllSessions lists club info sessions
// GET /student/getSessions
func GetAllSessions(c *fiber.Ctx) error {
	sessions, err := eventService.AllSessions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve sessions"})
	}
	return c.JSON(fiber.Map{"success": true, "sessions": sessions})
}

// ================== REGISTRATION WORKFLOW ==================

// RegisterEvent registers the student as team captain for an event
// POST /student/registerEvent
func RegisterEvent(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID uint `json:"eventId"`
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId is required"})
	}

	registration, err := registrationService.RegisterAsCaptain(req.EventID, studentID)
	if err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"msg":          "Registered as captain",
		"registration": registration,
	})
}

// GetEventDetails returns the student's application status for an event.
// Show: 0 = not registered (detail is the raw event), 1 = captain,
// 2 = accepted member, 3 = pending invitation(s).
// GET /student/getEventDetails?eventId=
func GetEventDetails(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	eventID, err := queryEventID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	status, err := registrationService.GetApplicationStatus(eventID, studentID)
	if err != nil {
		return domainFail(c, err)
	}

	switch status.Show {
	case services.ShowCaptain, services.ShowMember:
		return c.JSON(fiber.Map{"success": true, "Show": status.Show, "detail": status.Registration})
	case services.ShowInvited:
		return c.JSON(fiber.Map{"success": true, "Show": status.Show, "detail": status.Invitations})
	default:
		return c.JSON(fiber.Map{"success": true, "Show": status.Show, "detail": status.Event})
	}
}

// AddMemberOffer invites a student by email to the caller's team
// POST /student/addMemberOffer
func AddMemberOffer(c *fiber.Ctx) error {
	captainID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID     uint   `json:"eventId"`
		MemberEmail string `json:"memberEmail"`
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 || req.MemberEmail == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId and memberEmail are required"})
	}

	if err := registrationService.OfferMembership(req.EventID, captainID, req.MemberEmail); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Offer sent"})
}

// AcceptMemberOffer accepts a pending invitation; the caller is the invitee and
// studentId in the body identifies the inviting captain
// POST /student/acceptMemberOffer
func AcceptMemberOffer(c *fiber.Ctx) error {
	memberID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID   uint `json:"eventId"`
		StudentID uint `json:"studentId"` // captain
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 || req.StudentID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId and studentId are required"})
	}

	if err := registrationService.AcceptOffer(req.EventID, req.StudentID, memberID); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Joined team"})
}

// DeclineMemberOffer dismisses a pending invitation
// POST /student/declineMemberOffer
func DeclineMemberOffer(c *fiber.Ctx) error {
	memberID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID   uint `json:"eventId"`
		StudentID uint `json:"studentId"` // captain
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 || req.StudentID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId and studentId are required"})
	}

	if err := registrationService.DeclineOffer(req.EventID, req.StudentID, memberID); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Offer declined"})
}

// AddTeamName sets or overwrites the caller's team name
// POST /student/addTeamName
func AddTeamName(c *fiber.Ctx) error {
	captainID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID  uint   `json:"eventId"`
		TeamName string `json:"teamName"`
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 || req.TeamName == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId and teamName are required"})
	}

	if err := registrationService.SetTeamName(req.EventID, captainID, req.TeamName); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Team name saved"})
}

// UnregisterAsCaptain deletes the caller's registration; the team dissolves.
// Absence of a record is a no-op, not an error.
// POST /student/unregisteredAsCaptain
func UnregisterAsCaptain(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID uint `json:"eventId"`
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId is required"})
	}

	removed, err := registrationService.UnregisterAsCaptain(req.EventID, studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to unregister"})
	}

	if !removed {
		return c.JSON(fiber.Map{"success": true, "msg": "Not registered for this event"})
	}
	return c.JSON(fiber.Map{"success": true, "msg": "Unregistered"})
}

// GetMyRegistrations lists every registration the student captains or joined
// GET /student/getMyRegistrations
func GetMyRegistrations(c *fiber.Ctx) error {
	studentID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	registrations, err := registrationService.StudentRegistrations(studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve registrations"})
	}

	return c.JSON(fiber.Map{"success": true, "registrations": registrations})
}
