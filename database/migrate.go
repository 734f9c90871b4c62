// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"os"
	"time"

	"clubrecruit/models"

	"golang.org/x/crypto/bcrypt"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Club{},
		&models.Admin{},
		&models.Event{},
		&models.EventRound{},
		&models.Session{},
		&models.Registration{},
		&models.RegistrationOffer{},
		&models.RegistrationMember{},
		&models.RegistrationRound{},
		&models.EmailOTP{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	createIndexes()
	seedAdmin()

	log.Println("All migrations completed successfully")
}

// createIndexes creates indexes GORM tags don't cover
func createIndexes() {
	db := GetDB()

	db.Exec("CREATE INDEX IF NOT EXISTS idx_students_email ON students(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_events_club ON events(club_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_events_deadline ON events(registration_deadline)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_club ON sessions(club_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reg_members_student ON registration_members(student_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reg_offers_student ON registration_offers(student_id)")
}

// seedAdmin creates the admin account from env on first boot
func seedAdmin() {
	db := GetDB()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.Admin{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.Admin{
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}
