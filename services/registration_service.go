// services/registration_service.go - Event Team Registration Workflow
package services

import (
	"errors"
	"time"

	"clubrecruit/models"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrStudentNotFound    = errors.New("no student with this email")
	ErrAlreadyRegistered  = errors.New("already registered as captain for this event")
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrNotRegistered      = errors.New("no registration found for this event")
	ErrSelfOffer          = errors.New("cannot offer membership to yourself")
	ErrTargetIsCaptain    = errors.New("student is already a captain for this event")
	ErrAlreadyMember      = errors.New("student is already on your team")
	ErrMemberTaken        = errors.New("student has already joined another team for this event")
	ErrDuplicateOffer     = errors.New("offer already pending for this student")
	ErrNoOffer            = errors.New("no pending offer found")
	ErrTeamFull           = errors.New("team is full for this event")
	ErrInvalidRound       = errors.New("round number out of range")
)

type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Show values returned by ApplicationStatus, matching the client contract.
const (
	ShowNotRegistered = 0
	ShowCaptain       = 1
	ShowMember        = 2
	ShowInvited       = 3
)

// ApplicationStatus is the student-facing view of where they stand for an event.
type ApplicationStatus struct {
	Show         int                   `json:"Show"`
	Event        *models.Event         `json:"event,omitempty"`
	Registration *models.Registration  `json:"registration,omitempty"`
	Invitations  []models.Registration `json:"invitations,omitempty"`
}

// ================== REGISTRATION RECORD STORE ==================

// RegisterAsCaptain creates a registration for (event, student), snapshotting the
// event's round templates. The snapshot is point-in-time: later event edits do
// not touch it.
func (s *RegistrationService) RegisterAsCaptain(eventID, studentID uint) (*models.Registration, error) {
	var event models.Event
	if err := s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("round_number ASC")
	}).First(&event, eventID).Error; err != nil {
		return nil, ErrEventNotFound
	}

	if !event.RegistrationDeadline.IsZero() && time.Now().After(event.RegistrationDeadline) {
		return nil, ErrRegistrationClosed
	}

	var count int64
	s.db.Model(&models.Registration{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count)
	if count > 0 {
		return nil, ErrAlreadyRegistered
	}

	registration := &models.Registration{
		EventID:        eventID,
		StudentID:      studentID,
		NumberOfRounds: event.NumberOfRounds,
		RegisteredAt:   time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(registration).Error; err != nil {
			return err
		}

		for _, template := range event.Rounds {
			round := models.RegistrationRound{
				RegistrationID: registration.ID,
				RoundNumber:    template.RoundNumber,
				Kind:           template.Kind,
				Title:          template.Title,
				Deadline:       template.Deadline,
				FormLink:       template.FormLink,
				Selected:       false,
			}
			if err := tx.Create(&round).Error; err != nil {
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
	}).First(registration, registration.ID)

	return registration, nil
}

// UnregisterAsCaptain deletes the captain's record and everything hanging off
// it. The team dissolves; members are not promoted. Returns false when there was
// nothing to remove, which callers report as a no-op rather than an error.
func (s *RegistrationService) UnregisterAsCaptain(eventID, studentID uint) (bool, error) {
	var registration models.Registration
	err := s.db.Where("event_id = ? AND student_id = ?", eventID, studentID).
		First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ?", registration.ID).
			Delete(&models.RegistrationOffer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("registration_id = ?", registration.ID).
			Delete(&models.RegistrationMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("registration_id = ?", registration.ID).
			Delete(&models.RegistrationRound{}).Error; err != nil {
			return err
		}
		return tx.Delete(&registration).Error
	})

	if err != nil {
		return false, err
	}
	return true, nil
}

// GetApplicationStatus resolves what a student sees for an event. Precedence,
// first match wins: captain, accepted member, invited (possibly by several
// captains), not registered.
func (s *RegistrationService) GetApplicationStatus(eventID, studentID uint) (*ApplicationStatus, error) {
	// (1) captain of a record for this event
	var registration models.Registration
	err := s.db.Where("event_id = ? AND student_id = ?", eventID, studentID).
		Preload("Event").
		Preload("Offers.Student").
		Preload("Members.Student").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		First(&registration).Error
	if err == nil {
		return &ApplicationStatus{Show: ShowCaptain, Registration: &registration}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// (2) accepted member on some team
	var member models.RegistrationMember
	err = s.db.Where("event_id = ? AND student_id = ?", eventID, studentID).
		First(&member).Error
	if err == nil {
		var team models.Registration
		if err := s.db.Preload("Student").
			Preload("Members.Student").
			Preload("Rounds", func(db *gorm.DB) *gorm.DB {
				return db.Order("round_number ASC")
			}).
			First(&team, member.RegistrationID).Error; err != nil {
			return nil, err
		}
		return &ApplicationStatus{Show: ShowMember, Registration: &team}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// (3) pending invitations, possibly from multiple captains
	var invitations []models.Registration
	err = s.db.Joins("JOIN registration_offers ON registration_offers.registration_id = registrations.id").
		Where("registrations.event_id = ? AND registration_offers.student_id = ?", eventID, studentID).
		Preload("Student").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	if len(invitations) > 0 {
		return &ApplicationStatus{Show: ShowInvited, Invitations: invitations}, nil
	}

	// (4) not registered at all: hand back the event so the caller can offer to register
	var event models.Event
	if err := s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("round_number ASC")
	}).First(&event, eventID).Error; err != nil {
		return nil, ErrEventNotFound
	}
	return &ApplicationStatus{Show: ShowNotRegistered, Event: &event}, nil
}

// EventRoster returns every registration for an event with team composition and
// round progress preloaded, for club review.
func (s *RegistrationService) EventRoster(eventID uint) ([]models.Registration, error) {
	var registrations []models.Registration
	err := s.db.Where("event_id = ?", eventID).
		Preload("Student").
		Preload("Offers.Student").
		Preload("Members.Student").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Order("registered_at ASC").
		Find(&registrations).Error
	return registrations, err
}

// StudentRegistrations returns every registration a student captains or is an
// accepted member of, for the student dashboard.
func (s *RegistrationService) StudentRegistrations(studentID uint) ([]models.Registration, error) {
	var captained []models.Registration
	err := s.db.Where("student_id = ?", studentID).
		Preload("Event").
		Preload("Members.Student").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Find(&captained).Error
	if err != nil {
		return nil, err
	}

	var joined []models.Registration
	err = s.db.Joins("JOIN registration_members ON registration_members.registration_id = registrations.id").
		Where("registration_members.student_id = ?", studentID).
		Preload("Event").
		Preload("Student").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Find(&joined).Error
	if err != nil {
		return nil, err
	}

	return append(captained, joined...), nil
}

// ================== TEAM FORMATION ==================

// OfferMembership proposes team membership to a student identified by email.
func (s *RegistrationService) OfferMembership(eventID, captainID uint, memberEmail string) error {
	var target models.Student
	if err := s.db.Where("email = ?", memberEmail).First(&target).Error; err != nil {
		return ErrStudentNotFound
	}

	if target.ID == captainID {
		return ErrSelfOffer
	}

	var registration models.Registration
	if err := s.db.Where("event_id = ? AND student_id = ?", eventID, captainID).
		First(&registration).Error; err != nil {
		return ErrNotRegistered
	}

	// Target already captains their own team for this event
	var captainCount int64
	s.db.Model(&models.Registration{}).
		Where("event_id = ? AND student_id = ?", eventID, target.ID).
		Count(&captainCount)
	if captainCount > 0 {
		return ErrTargetIsCaptain
	}

	// Accepted by any captain for this event — global exclusivity
	var member models.RegistrationMember
	err := s.db.Where("event_id = ? AND student_id = ?", eventID, target.ID).
		First(&member).Error
	if err == nil {
		if member.RegistrationID == registration.ID {
			return ErrAlreadyMember
		}
		return ErrMemberTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var offerCount int64
	s.db.Model(&models.RegistrationOffer{}).
		Where("registration_id = ? AND student_id = ?", registration.ID, target.ID).
		Count(&offerCount)
	if offerCount > 0 {
		return ErrDuplicateOffer
	}

	offer := models.RegistrationOffer{
		RegistrationID: registration.ID,
		StudentID:      target.ID,
		CreatedAt:      time.Now(),
	}
	return s.db.Create(&offer).Error
}

// AcceptOffer moves the caller from membersOffered to membersAccepted on the
// captain's record. Runs in a transaction: the capacity recount and the unique
// index on (event_id, student_id) close the concurrent-accept races.
func (s *RegistrationService) AcceptOffer(eventID, captainID, memberID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.Where("event_id = ? AND student_id = ?", eventID, captainID).
			First(&registration).Error; err != nil {
			return ErrNotRegistered
		}

		var offer models.RegistrationOffer
		if err := tx.Where("registration_id = ? AND student_id = ?", registration.ID, memberID).
			First(&offer).Error; err != nil {
			return ErrNoOffer
		}

		var event models.Event
		if err := tx.First(&event, eventID).Error; err != nil {
			return ErrEventNotFound
		}

		// Team size includes the captain.
		var memberCount int64
		tx.Model(&models.RegistrationMember{}).
			Where("registration_id = ?", registration.ID).
			Count(&memberCount)
		if int(memberCount)+2 > event.MaxParticipants {
			return ErrTeamFull
		}

		member := models.RegistrationMember{
			RegistrationID: registration.ID,
			EventID:        eventID,
			StudentID:      memberID,
			AcceptedAt:     time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			// Unique index (event_id, student_id): lost a race to another team
			return ErrMemberTaken
		}

		return tx.Delete(&offer).Error
	})
}

// DeclineOffer removes a pending invitation without joining the team.
func (s *RegistrationService) DeclineOffer(eventID, captainID, memberID uint) error {
	var registration models.Registration
	if err := s.db.Where("event_id = ? AND student_id = ?", eventID, captainID).
		First(&registration).Error; err != nil {
		return ErrNotRegistered
	}

	result := s.db.Where("registration_id = ? AND student_id = ?", registration.ID, memberID).
		Delete(&models.RegistrationOffer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoOffer
	}
	return nil
}

// SetTeamName overwrites the team name on the captain's record.
func (s *RegistrationService) SetTeamName(eventID, captainID uint, teamName string) error {
	result := s.db.Model(&models.Registration{}).
		Where("event_id = ? AND student_id = ?", eventID, captainID).
		Update("team_name", teamName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotRegistered
	}
	return nil
}

// ================== ROUND PROGRESSION (club review) ==================

// captainRecord loads the captain's registration and validates a 1-based round
// number against its snapshot.
func (s *RegistrationService) captainRecord(eventID, captainID uint, roundNumber int) (*models.Registration, error) {
	var registration models.Registration
	if err := s.db.Where("event_id = ? AND student_id = ?", eventID, captainID).
		First(&registration).Error; err != nil {
		return nil, ErrNotRegistered
	}

	if roundNumber < 1 || roundNumber > registration.NumberOfRounds {
		return nil, ErrInvalidRound
	}
	return &registration, nil
}

// ScheduleRound sets the date for a team's round.
func (s *RegistrationService) ScheduleRound(eventID, captainID uint, roundNumber int, roundDate string) error {
	registration, err := s.captainRecord(eventID, captainID, roundNumber)
	if err != nil {
		return err
	}

	return s.db.Model(&models.RegistrationRound{}).
		Where("registration_id = ? AND round_number = ?", registration.ID, roundNumber).
		Update("round_date", roundDate).Error
}

// SelectForRound marks a team as cleared for a round. Idempotent; selection is
// never reset by the workflow.
func (s *RegistrationService) SelectForRound(eventID, captainID uint, roundNumber int) error {
	registration, err := s.captainRecord(eventID, captainID, roundNumber)
	if err != nil {
		return err
	}

	return s.db.Model(&models.RegistrationRound{}).
		Where("registration_id = ? AND round_number = ?", registration.ID, roundNumber).
		Update("selected", true).Error
}

// SetRoundRemarks stores reviewer remarks on a team's round.
func (s *RegistrationService) SetRoundRemarks(eventID, captainID uint, roundNumber int, remarks string) error {
	registration, err := s.captainRecord(eventID, captainID, roundNumber)
	if err != nil {
		return err
	}

	return s.db.Model(&models.RegistrationRound{}).
		Where("registration_id = ? AND round_number = ?", registration.ID, roundNumber).
		Update("remarks", remarks).Error
}

// Finalize marks the last round as cleared, which the client reads as "team
// selected for the opportunity".
func (s *RegistrationService) Finalize(eventID, captainID uint) error {
	var registration models.Registration
	if err := s.db.Where("event_id = ? AND student_id = ?", eventID, captainID).
		First(&registration).Error; err != nil {
		return ErrNotRegistered
	}

	return s.SelectForRound(eventID, captainID, registration.NumberOfRounds)
}
