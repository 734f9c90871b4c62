package services

import (
	"fmt"
	"testing"
	"time"

	"clubrecruit/models"

	"github.com/glebarez/sqlite"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Student{},
		&models.Club{},
		&models.Event{},
		&models.EventRound{},
		&models.Session{},
		&models.Registration{},
		&models.RegistrationOffer{},
		&models.RegistrationMember{},
		&models.RegistrationRound{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedStudent(db *gorm.DB, name string) *models.Student {
	student := &models.Student{
		Name:     name,
		Email:    fmt.Sprintf("%s@test.edu", name),
		Password: "x",
	}
	db.Create(student)
	return student
}

func seedEvent(db *gorm.DB, maxParticipants, rounds int) *models.Event {
	event := &models.Event{
		ClubID:               1,
		Title:                "Recruitment Drive",
		MaxParticipants:      maxParticipants,
		NumberOfRounds:       rounds,
		RegistrationDeadline: time.Now().Add(24 * time.Hour),
	}
	db.Create(event)
	for i := 1; i <= rounds; i++ {
		kind := models.RoundKindInterview
		if i%2 == 0 {
			kind = models.RoundKindSubmission
		}
		db.Create(&models.EventRound{
			EventID:     event.ID,
			RoundNumber: i,
			Kind:        kind,
			Title:       fmt.Sprintf("Round %d", i),
		})
	}
	return event
}

func TestRegisterAsCaptain(t *testing.T) {
	Convey("Given an event with 3 rounds", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 4, 3)
		captain := seedStudent(db, "alice")

		Convey("Registering creates a record with a full round snapshot", func() {
			registration, err := svc.RegisterAsCaptain(event.ID, captain.ID)
			So(err, ShouldBeNil)
			So(registration.NumberOfRounds, ShouldEqual, 3)
			So(registration.Rounds, ShouldHaveLength, 3)
			for i, round := range registration.Rounds {
				So(round.RoundNumber, ShouldEqual, i+1)
				So(round.Selected, ShouldBeFalse)
				So(round.RoundDate, ShouldBeEmpty)
				So(round.Remarks, ShouldBeEmpty)
			}

			Convey("A second registration for the same (event, student) conflicts", func() {
				_, err := svc.RegisterAsCaptain(event.ID, captain.ID)
				So(err, ShouldEqual, ErrAlreadyRegistered)
			})

			Convey("Editing the event afterwards does not touch the snapshot", func() {
				db.Model(&models.Event{}).Where("id = ?", event.ID).
					Update("number_of_rounds", 5)
				db.Create(&models.EventRound{EventID: event.ID, RoundNumber: 4, Kind: models.RoundKindInterview})

				var reloaded models.Registration
				db.Preload("Rounds").First(&reloaded, registration.ID)
				So(reloaded.NumberOfRounds, ShouldEqual, 3)
				So(reloaded.Rounds, ShouldHaveLength, 3)
			})
		})

		Convey("Registering for a missing event fails", func() {
			_, err := svc.RegisterAsCaptain(9999, captain.ID)
			So(err, ShouldEqual, ErrEventNotFound)
		})

		Convey("Registering after the deadline fails", func() {
			closed := seedEvent(db, 4, 1)
			db.Model(&models.Event{}).Where("id = ?", closed.ID).
				Update("registration_deadline", time.Now().Add(-time.Hour))

			_, err := svc.RegisterAsCaptain(closed.ID, captain.ID)
			So(err, ShouldEqual, ErrRegistrationClosed)
		})
	})
}

func TestUnregisterAsCaptain(t *testing.T) {
	Convey("Given a captain with a team", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 3, 2)
		captain := seedStudent(db, "alice")
		member := seedStudent(db, "bob")

		registration, err := svc.RegisterAsCaptain(event.ID, captain.ID)
		So(err, ShouldBeNil)
		So(svc.OfferMembership(event.ID, captain.ID, member.Email), ShouldBeNil)
		So(svc.AcceptOffer(event.ID, captain.ID, member.ID), ShouldBeNil)

		Convey("Unregistering removes the record and everything hanging off it", func() {
			removed, err := svc.UnregisterAsCaptain(event.ID, captain.ID)
			So(err, ShouldBeNil)
			So(removed, ShouldBeTrue)

			var count int64
			db.Model(&models.Registration{}).Where("id = ?", registration.ID).Count(&count)
			So(count, ShouldEqual, 0)
			db.Model(&models.RegistrationMember{}).Where("registration_id = ?", registration.ID).Count(&count)
			So(count, ShouldEqual, 0)
			db.Model(&models.RegistrationRound{}).Where("registration_id = ?", registration.ID).Count(&count)
			So(count, ShouldEqual, 0)

			Convey("Re-registering afterwards succeeds with no lingering conflict", func() {
				_, err := svc.RegisterAsCaptain(event.ID, captain.ID)
				So(err, ShouldBeNil)
			})

			Convey("Unregistering again is a no-op, not an error", func() {
				removed, err := svc.UnregisterAsCaptain(event.ID, captain.ID)
				So(err, ShouldBeNil)
				So(removed, ShouldBeFalse)
			})
		})
	})
}

func TestTeamFormation(t *testing.T) {
	Convey("Given two captains and a pool of students", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 3, 2)
		alice := seedStudent(db, "alice")
		bob := seedStudent(db, "bob")
		carol := seedStudent(db, "carol")
		dave := seedStudent(db, "dave")

		_, err := svc.RegisterAsCaptain(event.ID, alice.ID)
		So(err, ShouldBeNil)

		Convey("Offer then accept moves the student from offered to accepted", func() {
			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldBeNil)

			var offers, members int64
			db.Model(&models.RegistrationOffer{}).Where("student_id = ?", carol.ID).Count(&offers)
			So(offers, ShouldEqual, 1)

			So(svc.AcceptOffer(event.ID, alice.ID, carol.ID), ShouldBeNil)
			db.Model(&models.RegistrationOffer{}).Where("student_id = ?", carol.ID).Count(&offers)
			db.Model(&models.RegistrationMember{}).Where("student_id = ?", carol.ID).Count(&members)
			So(offers, ShouldEqual, 0)
			So(members, ShouldEqual, 1)
		})

		Convey("Offering an unknown email fails", func() {
			So(svc.OfferMembership(event.ID, alice.ID, "ghost@test.edu"), ShouldEqual, ErrStudentNotFound)
		})

		Convey("A captain cannot offer membership to themselves", func() {
			So(svc.OfferMembership(event.ID, alice.ID, alice.Email), ShouldEqual, ErrSelfOffer)
		})

		Convey("A captain cannot offer to another captain of the same event", func() {
			_, err := svc.RegisterAsCaptain(event.ID, bob.ID)
			So(err, ShouldBeNil)
			So(svc.OfferMembership(event.ID, alice.ID, bob.Email), ShouldEqual, ErrTargetIsCaptain)
		})

		Convey("Duplicate offers are rejected", func() {
			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldBeNil)
			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldEqual, ErrDuplicateOffer)
		})

		Convey("Accepting without a pending offer fails", func() {
			So(svc.AcceptOffer(event.ID, alice.ID, carol.ID), ShouldEqual, ErrNoOffer)
		})

		Convey("A student accepted into one team is locked out of others for the event", func() {
			_, err := svc.RegisterAsCaptain(event.ID, bob.ID)
			So(err, ShouldBeNil)

			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldBeNil)
			So(svc.AcceptOffer(event.ID, alice.ID, carol.ID), ShouldBeNil)

			Convey("Offering them again from the same team reports membership", func() {
				So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldEqual, ErrAlreadyMember)
			})

			Convey("Offering them from another team reports global exclusivity", func() {
				So(svc.OfferMembership(event.ID, bob.ID, carol.Email), ShouldEqual, ErrMemberTaken)
			})

			Convey("A stale offer from another captain can no longer be accepted", func() {
				// bob invited carol before she joined alice's team
				removed := db.Where("student_id = ?", carol.ID).Delete(&models.RegistrationMember{})
				So(removed.Error, ShouldBeNil)
				So(svc.OfferMembership(event.ID, bob.ID, carol.Email), ShouldBeNil)
				So(svc.AcceptOffer(event.ID, bob.ID, carol.ID), ShouldBeNil)

				So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldEqual, ErrMemberTaken)
			})
		})

		Convey("Declining an offer removes it without joining", func() {
			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldBeNil)
			So(svc.DeclineOffer(event.ID, alice.ID, carol.ID), ShouldBeNil)

			var offers, members int64
			db.Model(&models.RegistrationOffer{}).Where("student_id = ?", carol.ID).Count(&offers)
			db.Model(&models.RegistrationMember{}).Where("student_id = ?", carol.ID).Count(&members)
			So(offers, ShouldEqual, 0)
			So(members, ShouldEqual, 0)

			So(svc.DeclineOffer(event.ID, alice.ID, carol.ID), ShouldEqual, ErrNoOffer)
		})

		Convey("Accepting beyond MaxParticipants is rejected", func() {
			// cap is 3 including the captain, so two members fit
			So(svc.OfferMembership(event.ID, alice.ID, bob.Email), ShouldBeNil)
			So(svc.OfferMembership(event.ID, alice.ID, carol.Email), ShouldBeNil)
			So(svc.OfferMembership(event.ID, alice.ID, dave.Email), ShouldBeNil)

			So(svc.AcceptOffer(event.ID, alice.ID, bob.ID), ShouldBeNil)
			So(svc.AcceptOffer(event.ID, alice.ID, carol.ID), ShouldBeNil)
			So(svc.AcceptOffer(event.ID, alice.ID, dave.ID), ShouldEqual, ErrTeamFull)

			var members int64
			db.Model(&models.RegistrationMember{}).Where("event_id = ?", event.ID).Count(&members)
			So(members, ShouldEqual, 2)
		})

		Convey("SetTeamName overwrites the captain record's name", func() {
			So(svc.SetTeamName(event.ID, alice.ID, "Compilers"), ShouldBeNil)
			So(svc.SetTeamName(event.ID, alice.ID, "Linkers"), ShouldBeNil)

			var registration models.Registration
			db.Where("event_id = ? AND student_id = ?", event.ID, alice.ID).First(&registration)
			So(registration.TeamName, ShouldEqual, "Linkers")

			So(svc.SetTeamName(event.ID, carol.ID, "Nope"), ShouldEqual, ErrNotRegistered)
		})
	})
}

func TestRoundProgression(t *testing.T) {
	Convey("Given a registered team for a 3-round event", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 4, 3)
		captain := seedStudent(db, "alice")

		registration, err := svc.RegisterAsCaptain(event.ID, captain.ID)
		So(err, ShouldBeNil)

		roundState := func(n int) models.RegistrationRound {
			var round models.RegistrationRound
			db.Where("registration_id = ? AND round_number = ?", registration.ID, n).First(&round)
			return round
		}

		Convey("Scheduling sets the round date", func() {
			So(svc.ScheduleRound(event.ID, captain.ID, 1, "2024-05-01"), ShouldBeNil)
			So(roundState(1).RoundDate, ShouldEqual, "2024-05-01")
			So(roundState(1).Selected, ShouldBeFalse)
		})

		Convey("Selection advances rounds without regressing earlier ones", func() {
			So(svc.SelectForRound(event.ID, captain.ID, 1), ShouldBeNil)
			So(svc.ScheduleRound(event.ID, captain.ID, 2, "2024-05-08"), ShouldBeNil)
			So(svc.SelectForRound(event.ID, captain.ID, 2), ShouldBeNil)

			So(roundState(1).Selected, ShouldBeTrue)
			So(roundState(2).Selected, ShouldBeTrue)
			So(roundState(2).RoundDate, ShouldEqual, "2024-05-08")
			So(roundState(3).Selected, ShouldBeFalse)
		})

		Convey("Selection is idempotent", func() {
			So(svc.SelectForRound(event.ID, captain.ID, 1), ShouldBeNil)
			So(svc.SelectForRound(event.ID, captain.ID, 1), ShouldBeNil)
			So(roundState(1).Selected, ShouldBeTrue)
		})

		Convey("Round numbers are validated against the snapshot", func() {
			So(svc.ScheduleRound(event.ID, captain.ID, 0, "2024-05-01"), ShouldEqual, ErrInvalidRound)
			So(svc.ScheduleRound(event.ID, captain.ID, 4, "2024-05-01"), ShouldEqual, ErrInvalidRound)
			So(svc.SelectForRound(event.ID, captain.ID, 4), ShouldEqual, ErrInvalidRound)
		})

		Convey("Remarks land on the right round", func() {
			So(svc.SetRoundRemarks(event.ID, captain.ID, 2, "strong submission"), ShouldBeNil)
			So(roundState(2).Remarks, ShouldEqual, "strong submission")
			So(roundState(1).Remarks, ShouldBeEmpty)
		})

		Convey("Finalize clears the last round", func() {
			So(svc.Finalize(event.ID, captain.ID), ShouldBeNil)
			So(roundState(3).Selected, ShouldBeTrue)
			So(roundState(1).Selected, ShouldBeFalse)
		})

		Convey("Progression against an unknown captain fails", func() {
			So(svc.ScheduleRound(event.ID, 9999, 1, "2024-05-01"), ShouldEqual, ErrNotRegistered)
			So(svc.Finalize(event.ID, 9999), ShouldEqual, ErrNotRegistered)
		})
	})
}

func TestApplicationStatus(t *testing.T) {
	Convey("Given an event and three students", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 4, 2)
		alice := seedStudent(db, "alice")
		bob := seedStudent(db, "bob")
		carol := seedStudent(db, "carol")

		Convey("An unregistered student sees the raw event", func() {
			status, err := svc.GetApplicationStatus(event.ID, alice.ID)
			So(err, ShouldBeNil)
			So(status.Show, ShouldEqual, ShowNotRegistered)
			So(status.Event, ShouldNotBeNil)
			So(status.Event.ID, ShouldEqual, event.ID)
			So(status.Event.Rounds, ShouldHaveLength, 2)
		})

		Convey("A missing event reports not found", func() {
			_, err := svc.GetApplicationStatus(9999, alice.ID)
			So(err, ShouldEqual, ErrEventNotFound)
		})

		Convey("With a registration in place", func() {
			_, err := svc.RegisterAsCaptain(event.ID, alice.ID)
			So(err, ShouldBeNil)

			Convey("The captain sees their own record", func() {
				status, err := svc.GetApplicationStatus(event.ID, alice.ID)
				So(err, ShouldBeNil)
				So(status.Show, ShouldEqual, ShowCaptain)
				So(status.Registration.StudentID, ShouldEqual, alice.ID)
				So(status.Registration.Rounds, ShouldHaveLength, 2)
			})

			Convey("An invited student sees pending invitations", func() {
				So(svc.OfferMembership(event.ID, alice.ID, bob.Email), ShouldBeNil)

				status, err := svc.GetApplicationStatus(event.ID, bob.ID)
				So(err, ShouldBeNil)
				So(status.Show, ShouldEqual, ShowInvited)
				So(status.Invitations, ShouldHaveLength, 1)

				Convey("Invitations from multiple captains are all listed", func() {
					_, err := svc.RegisterAsCaptain(event.ID, carol.ID)
					So(err, ShouldBeNil)
					So(svc.OfferMembership(event.ID, carol.ID, bob.Email), ShouldBeNil)

					status, err := svc.GetApplicationStatus(event.ID, bob.ID)
					So(err, ShouldBeNil)
					So(status.Show, ShouldEqual, ShowInvited)
					So(status.Invitations, ShouldHaveLength, 2)
				})
			})

			Convey("An accepted member outranks a pending invitation elsewhere", func() {
				_, err := svc.RegisterAsCaptain(event.ID, carol.ID)
				So(err, ShouldBeNil)
				So(svc.OfferMembership(event.ID, carol.ID, bob.Email), ShouldBeNil)
				So(svc.OfferMembership(event.ID, alice.ID, bob.Email), ShouldBeNil)
				So(svc.AcceptOffer(event.ID, alice.ID, bob.ID), ShouldBeNil)

				status, err := svc.GetApplicationStatus(event.ID, bob.ID)
				So(err, ShouldBeNil)
				So(status.Show, ShouldEqual, ShowMember)
				So(status.Registration.StudentID, ShouldEqual, alice.ID)
			})
		})
	})
}

func TestFullWorkflowScenario(t *testing.T) {
	Convey("Event with maxParticipants=3 and numberOfRounds=2", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		event := seedEvent(db, 3, 2)
		alice := seedStudent(db, "alice")
		bob := seedStudent(db, "bob")

		Convey("The whole captain/member/review flow holds together", func() {
			registration, err := svc.RegisterAsCaptain(event.ID, alice.ID)
			So(err, ShouldBeNil)
			So(registration.Rounds, ShouldHaveLength, 2)

			So(svc.OfferMembership(event.ID, alice.ID, bob.Email), ShouldBeNil)
			So(svc.AcceptOffer(event.ID, alice.ID, bob.ID), ShouldBeNil)

			var offers, members int64
			db.Model(&models.RegistrationOffer{}).Where("registration_id = ?", registration.ID).Count(&offers)
			db.Model(&models.RegistrationMember{}).Where("registration_id = ?", registration.ID).Count(&members)
			So(offers, ShouldEqual, 0)
			So(members, ShouldEqual, 1)

			So(svc.ScheduleRound(event.ID, alice.ID, 1, "2024-05-01"), ShouldBeNil)
			So(svc.SelectForRound(event.ID, alice.ID, 1), ShouldBeNil)
			So(svc.Finalize(event.ID, alice.ID), ShouldBeNil)

			roster, err := svc.EventRoster(event.ID)
			So(err, ShouldBeNil)
			So(roster, ShouldHaveLength, 1)
			So(roster[0].Rounds[0].RoundDate, ShouldEqual, "2024-05-01")
			So(roster[0].Rounds[0].Selected, ShouldBeTrue)
			So(roster[0].Rounds[1].Selected, ShouldBeTrue)
		})
	})
}

func TestStudentRegistrations(t *testing.T) {
	Convey("Given a student who captains one team and joined another", t, func() {
		db := newTestDB(t)
		svc := NewRegistrationService(db)
		eventA := seedEvent(db, 3, 1)
		eventB := seedEvent(db, 3, 1)
		alice := seedStudent(db, "alice")
		bob := seedStudent(db, "bob")

		_, err := svc.RegisterAsCaptain(eventA.ID, alice.ID)
		So(err, ShouldBeNil)
		_, err = svc.RegisterAsCaptain(eventB.ID, bob.ID)
		So(err, ShouldBeNil)
		So(svc.OfferMembership(eventB.ID, bob.ID, alice.Email), ShouldBeNil)
		So(svc.AcceptOffer(eventB.ID, bob.ID, alice.ID), ShouldBeNil)

		Convey("The dashboard lists both registrations", func() {
			registrations, err := svc.StudentRegistrations(alice.ID)
			So(err, ShouldBeNil)
			So(registrations, ShouldHaveLength, 2)
		})
	})
}
