// models/registration.go
package models

import "time"

// Registration is one team's application to one event, owned by exactly one
// captain student. Round templates and the round count are snapshotted from the
// event at registration time and never re-synced if the event is edited later.
type Registration struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	EventID        uint     `gorm:"not null;uniqueIndex:idx_event_captain" json:"event_id"`
	Event          *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
	StudentID      uint     `gorm:"not null;uniqueIndex:idx_event_captain" json:"student_id"`
	Student        *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	TeamName       string   `gorm:"size:100" json:"team_name"`
	NumberOfRounds int      `gorm:"not null" json:"number_of_rounds"`

	Offers  []RegistrationOffer  `gorm:"foreignKey:RegistrationID" json:"members_offered,omitempty"`
	Members []RegistrationMember `gorm:"foreignKey:RegistrationID" json:"members_accepted,omitempty"`
	Rounds  []RegistrationRound  `gorm:"foreignKey:RegistrationID" json:"round_details,omitempty"`

	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Registration) TableName() string {
	return "registrations"
}

// RegistrationOffer is a pending membership invitation from the captain.
// Acceptance deletes the offer row and creates a RegistrationMember.
type RegistrationOffer struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	RegistrationID uint     `gorm:"not null;uniqueIndex:idx_reg_offer" json:"registration_id"`
	StudentID      uint     `gorm:"not null;uniqueIndex:idx_reg_offer;index" json:"student_id"`
	Student        *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (RegistrationOffer) TableName() string {
	return "registration_offers"
}

// RegistrationMember is an accepted team member. EventID is denormalized onto
// the row so the unique index on (event_id, student_id) enforces that a student
// is accepted by at most one captain per event.
type RegistrationMember struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	RegistrationID uint     `gorm:"not null;index" json:"registration_id"`
	EventID        uint     `gorm:"not null;uniqueIndex:idx_event_member" json:"event_id"`
	StudentID      uint     `gorm:"not null;uniqueIndex:idx_event_member" json:"student_id"`
	Student        *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	AcceptedAt time.Time `json:"accepted_at"`
}

func (RegistrationMember) TableName() string {
	return "registration_members"
}

// RegistrationRound is the per-registration copy of an event round, keyed by
// (registration_id, round_number) rather than array position. RoundNumber is
// 1-based. Selected is monotonic: the workflow never resets it to false.
type RegistrationRound struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RegistrationID uint      `gorm:"not null;uniqueIndex:idx_reg_round" json:"registration_id"`
	RoundNumber    int       `gorm:"not null;uniqueIndex:idx_reg_round" json:"round_number"`
	Kind           RoundKind `gorm:"not null;size:20" json:"kind"`
	Title          string    `gorm:"size:150" json:"title"`
	Deadline       string    `gorm:"size:40" json:"deadline,omitempty"`
	FormLink       string    `json:"form_link,omitempty"`

	// Mutable progression fields, driven by the reviewing club.
	Selected  bool   `gorm:"default:false" json:"selected"`
	RoundDate string `gorm:"size:40" json:"round_date,omitempty"`
	Remarks   string `gorm:"type:text" json:"remarks"`
}

func (RegistrationRound) TableName() string {
	return "registration_rounds"
}
