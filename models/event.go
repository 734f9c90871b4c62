// models/event.go
package models

import "time"

type RoundKind string

const (
	RoundKindInterview  RoundKind = "interview"
	RoundKindSubmission RoundKind = "submission"
)

// Event is a recruitment opportunity published by a club. MaxParticipants is the
// team size cap including the captain.
type Event struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ClubID               uint      `gorm:"not null;index" json:"club_id"`
	Club                 *Club     `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Title                string    `gorm:"not null;size:150" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	Venue                string    `gorm:"size:150" json:"venue"`
	MaxParticipants      int       `gorm:"not null;default:1" json:"max_participants"`
	NumberOfRounds       int       `gorm:"not null" json:"number_of_rounds"`
	RegistrationDeadline time.Time `json:"registration_deadline"`

	Rounds []EventRound `gorm:"foreignKey:EventID" json:"rounds,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// EventRound is the per-round template on an event. Interview rounds carry a
// schedulable date, submission rounds carry a deadline and a form link.
// RoundNumber is 1-based.
type EventRound struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"not null;uniqueIndex:idx_event_round" json:"event_id"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_event_round" json:"round_number"`
	Kind        RoundKind `gorm:"not null;size:20" json:"kind"`
	Title       string    `gorm:"size:150" json:"title"`
	RoundDate   string    `gorm:"size:40" json:"round_date,omitempty"`
	Deadline    string    `gorm:"size:40" json:"deadline,omitempty"`
	FormLink    string    `json:"form_link,omitempty"`
}

func (EventRound) TableName() string {
	return "event_rounds"
}

// Session is a club info session (talks, demos). Plain listing entity.
type Session struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClubID      uint   `gorm:"not null;index" json:"club_id"`
	Club        *Club  `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Title       string `gorm:"not null;size:150" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Venue       string `gorm:"size:150" json:"venue"`
	Date        string `gorm:"size:40" json:"date"`
	MeetLink    string `json:"meet_link"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
