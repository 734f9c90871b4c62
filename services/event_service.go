// services/event_service.go - Event Catalog & Session CRUD
package services

import (
	"errors"
	"time"

	"clubrecruit/models"

	"gorm.io/gorm"
)

var (
	ErrRoundCountMismatch = errors.New("number of rounds does not match round details")
	ErrBadRoundKind       = errors.New("round kind must be interview or submission")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotEventOwner      = errors.New("event does not belong to this club")
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// RoundInput is one round template in a create/edit event request.
type RoundInput struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	RoundDate string `json:"round_date"`
	Deadline  string `json:"deadline"`
	FormLink  string `json:"form_link"`
}

// EventInput is the club-supplied event payload.
type EventInput struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Venue                string       `json:"venue"`
	MaxParticipants      int          `json:"max_participants"`
	NumberOfRounds       int          `json:"number_of_rounds"`
	RegistrationDeadline time.Time    `json:"registration_deadline"`
	Rounds               []RoundInput `json:"rounds"`
}

// CreateEvent creates an event with its round templates in one transaction.
func (s *EventService) CreateEvent(clubID uint, input EventInput) (*models.Event, error) {
	if input.NumberOfRounds != len(input.Rounds) {
		return nil, ErrRoundCountMismatch
	}
	for _, round := range input.Rounds {
		kind := models.RoundKind(round.Kind)
		if kind != models.RoundKindInterview && kind != models.RoundKindSubmission {
			return nil, ErrBadRoundKind
		}
	}

	event := &models.Event{
		ClubID:               clubID,
		Title:                input.Title,
		Description:          input.Description,
		Venue:                input.Venue,
		MaxParticipants:      input.MaxParticipants,
		NumberOfRounds:       input.NumberOfRounds,
		RegistrationDeadline: input.RegistrationDeadline,
	}
	if event.MaxParticipants < 1 {
		event.MaxParticipants = 1
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		for i, round := range input.Rounds {
			template := models.EventRound{
				EventID:     event.ID,
				RoundNumber: i + 1,
				Kind:        models.RoundKind(round.Kind),
				Title:       round.Title,
				RoundDate:   round.RoundDate,
				Deadline:    round.Deadline,
				FormLink:    round.FormLink,
			}
			if err := tx.Create(&template).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("round_number ASC")
	}).First(event, event.ID)
	return event, nil
}

// GetEvent returns an event with its round templates.
func (s *EventService) GetEvent(eventID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.Preload("Club").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		First(&event, eventID).Error
	if err != nil {
		return nil, ErrEventNotFound
	}
	return &event, nil
}

// ClubEvents lists a club's own events.
func (s *EventService) ClubEvents(clubID uint) ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("club_id = ?", clubID).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// OpenEvents lists events students can still register for.
func (s *EventService) OpenEvents() ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("registration_deadline > ?", time.Now()).
		Preload("Club").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Order("registration_deadline ASC").
		Find(&events).Error
	return events, err
}

// UpdateEvent edits event metadata. Round templates and the round count stay as
// created; registrations made earlier keep their snapshots either way.
func (s *EventService) UpdateEvent(eventID, clubID uint, input EventInput) error {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return ErrEventNotFound
	}
	if event.ClubID != clubID {
		return ErrNotEventOwner
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"venue":       input.Venue,
		"updated_at":  time.Now(),
	}
	if input.MaxParticipants > 0 {
		updates["max_participants"] = input.MaxParticipants
	}
	if !input.RegistrationDeadline.IsZero() {
		updates["registration_deadline"] = input.RegistrationDeadline
	}

	return s.db.Model(&event).Updates(updates).Error
}

// DeleteEvent removes an event, its templates, and every registration made
// against it.
func (s *EventService) DeleteEvent(eventID, clubID uint) error {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return ErrEventNotFound
	}
	if event.ClubID != clubID {
		return ErrNotEventOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var registrationIDs []uint
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ?", eventID).
			Pluck("id", &registrationIDs).Error; err != nil {
			return err
		}

		if len(registrationIDs) > 0 {
			if err := tx.Where("registration_id IN ?", registrationIDs).
				Delete(&models.RegistrationRound{}).Error; err != nil {
				return err
			}
			if err := tx.Where("registration_id IN ?", registrationIDs).
				Delete(&models.RegistrationOffer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("registration_id IN ?", registrationIDs).
				Delete(&models.RegistrationMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id = ?", eventID).
				Delete(&models.Registration{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("event_id = ?", eventID).
			Delete(&models.EventRound{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}

// ================== SESSIONS ==================

// CreateSession publishes a club info session.
func (s *EventService) CreateSession(clubID uint, session *models.Session) error {
	session.ClubID = clubID
	return s.db.Create(session).Error
}

// ClubSessions lists a club's own sessions.
func (s *EventService) ClubSessions(clubID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("club_id = ?", clubID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// AllSessions lists every session with club info, newest first.
func (s *EventService) AllSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Preload("Club").
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// DeleteSession removes a club's session.
func (s *EventService) DeleteSession(sessionID, clubID uint) error {
	result := s.db.Where("id = ? AND club_id = ?", sessionID, clubID).
		Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
