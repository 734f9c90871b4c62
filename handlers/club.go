// handlers/club.go - Club-side HTTP handlers
package handlers

import (
	"time"

	"clubrecruit/database"
	"clubrecruit/middleware"
	"clubrecruit/models"
	"clubrecruit/services"

	"github.com/gofiber/fiber/v2"
)

// ================== PROFILE ==================

// GetClubProfile returns the authenticated club's profile
// GET /club/getProfile
func GetClubProfile(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var club models.Club
	if err := database.GetDB().First(&club, clubID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "msg": "Club not found"})
	}

	return c.JSON(fiber.Map{"success": true, "club": club})
}

// EditClubProfile updates the club's public profile
// POST /club/editProfile
func EditClubProfile(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		LogoURL     string `json:"logo_url"`
		Website     string `json:"website"`
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
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.LogoURL != "" {
		updates["logo_url"] = req.LogoURL
	}
	if req.Website != "" {
		updates["website"] = req.Website
	}

	if err := database.GetDB().Model(&models.Club{}).
		Where("id = ?", clubID).
		Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Profile updated"})
}

// ================== EVENT CRUD ==================

// AddEvent creates an event with its round templates
// POST /club/addEvent
func AddEvent(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}
	if input.Title == "" || input.NumberOfRounds < 1 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Title and at least one round are required"})
	}

	event, err := eventService.CreateEvent(clubID, input)
	if err != nil {
		return domainFail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "msg": "Event created", "event": event})
}

// GetClubEvents lists the club's own events
// GET /club/getEvents
func GetClubEvents(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	events, err := eventService.ClubEvents(clubID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve events"})
	}

	return c.JSON(fiber.Map{"success": true, "events": events})
}

// GetClubEvent returns one event with round templates
// GET /club/getEvent?eventId=
func GetClubEvent(c *fiber.Ctx) error {
	eventID, err := queryEventID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	event, err := eventService.GetEvent(eventID)
	if err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "event": event})
}

// EditEvent updates event metadata. Existing registrations keep their snapshots.
// POST /club/editEvent
func EditEvent(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID uint `json:"eventId"`
		services.EventInput
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId is required"})
	}

	if err := eventService.UpdateEvent(req.EventID, clubID, req.EventInput); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Event updated"})
}

// DeleteEvent removes an event and all registrations against it
// POST /club/deleteEvent
func DeleteEvent(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		EventID uint `json:"eventId"`
	}
	if err := c.BodyParser(&req); err != nil || req.EventID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId is required"})
	}

	if err := eventService.DeleteEvent(req.EventID, clubID); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Event deleted"})
}

// ================== SESSIONS ==================

// AddSession publishes an info session
// POST /club/addSession
func AddSession(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var session models.Session
	if err := c.BodyParser(&session); err != nil || session.Title == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Title is required"})
	}

	if err := eventService.CreateSession(clubID, &session); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to create session"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "msg": "Session created", "session": session})
}

// GetClubSessions lists the club's own sessions
// GET /club/getSessions
func GetClubSessions(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	sessions, err := eventService.ClubSessions(clubID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve sessions"})
	}

	return c.JSON(fiber.Map{"success": true, "sessions": sessions})
}

// DeleteSession removes a session
// POST /club/deleteSession
func DeleteSession(c *fiber.Ctx) error {
	clubID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "msg": "Unauthorized"})
	}

	var req struct {
		SessionID uint `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil || req.SessionID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "sessionId is required"})
	}

	if err := eventService.DeleteSession(req.SessionID, clubID); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Session deleted"})
}

// ================== ROUND PROGRESSION ==================

// GetEventsRegisteredStudents returns the roster of teams for an event
// GET /club/getEventsRegisteredStudents?eventId=
func GetEventsRegisteredStudents(c *fiber.Ctx) error {
	eventID, err := queryEventID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": err.Error()})
	}

	roster, err := registrationService.EventRoster(eventID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to retrieve roster"})
	}

	return c.JSON(fiber.Map{"success": true, "registrations": roster})
}

type roundActionRequest struct {
	EventID     uint   `json:"eventId"`
	StudentID   uint   `json:"studentId"` // captain owning the record
	RoundNumber int    `json:"roundNumber"`
	RoundDate   string `json:"roundDate"`
	Remarks     string `json:"remarks"`
}

// parseRoundAction validates the shared round-action payload. On failure it
// writes the 400 response itself and reports ok=false.
func parseRoundAction(c *fiber.Ctx, needRound bool) (*roundActionRequest, bool) {
	var req roundActionRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
		return nil, false
	}
	if req.EventID == 0 || req.StudentID == 0 {
		_ = c.Status(400).JSON(fiber.Map{"success": false, "msg": "eventId and studentId are required"})
		return nil, false
	}
	if needRound && req.RoundNumber == 0 {
		_ = c.Status(400).JSON(fiber.Map{"success": false, "msg": "roundNumber is required"})
		return nil, false
	}
	return &req, true
}

// ScheduleInterview sets the date for a team's round
// POST /club/scheduleInterview
func ScheduleInterview(c *fiber.Ctx) error {
	req, ok := parseRoundAction(c, true)
	if !ok {
		return nil
	}
	if req.RoundDate == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "roundDate is required"})
	}

	if err := registrationService.ScheduleRound(req.EventID, req.StudentID, req.RoundNumber, req.RoundDate); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Round scheduled"})
}

// SelectStudentForRound marks a team as cleared for a round
// POST /club/selectStudentForRound
func SelectStudentForRound(c *fiber.Ctx) error {
	req, ok := parseRoundAction(c, true)
	if !ok {
		return nil
	}

	if err := registrationService.SelectForRound(req.EventID, req.StudentID, req.RoundNumber); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Team selected for round"})
}

// AddRoundRemarks stores reviewer remarks on a team's round
// POST /club/addRoundRemarks
func AddRoundRemarks(c *fiber.Ctx) error {
	req, ok := parseRoundAction(c, true)
	if !ok {
		return nil
	}

	if err := registrationService.SetRoundRemarks(req.EventID, req.StudentID, req.RoundNumber, req.Remarks); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Remarks saved"})
}

// FinalizeStudent marks the team's last round as cleared
// POST /club/finalizeStudent
func FinalizeStudent(c *fiber.Ctx) error {
	req, ok := parseRoundAction(c, false)
	if !ok {
		return nil
	}

	if err := registrationService.Finalize(req.EventID, req.StudentID); err != nil {
		return domainFail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "msg": "Team finalized"})
}
