// services/mailer.go - Email delivery collaborator and OTP issuance
package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/smtp"
	"os"
	"time"

	"clubrecruit/database"
	"clubrecruit/models"

	"github.com/google/uuid"
)

var (
	ErrOTPInvalid = errors.New("invalid or expired OTP")
)

// Mailer sends email on behalf of the platform. The rest of the code treats
// delivery as opaque: a log-only mailer is used when SMTP is not configured.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay configured from env.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}

// LogMailer writes outgoing mail to the server log. Default in development.
type LogMailer struct{}

func (m *LogMailer) Send(to, subject, body string) error {
	log.Printf("MAIL to=%s subject=%q body=%q", to, subject, body)
	return nil
}

// NewMailerFromEnv picks the SMTP mailer when SMTP_HOST is set, otherwise the
// log mailer.
func NewMailerFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{
		host: host,
		port: envOrDefault("SMTP_PORT", "587"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: envOrDefault("SMTP_FROM", os.Getenv("SMTP_USER")),
	}
}

func envOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// ================== OTP SERVICE ==================

// OTPService issues and verifies signup one-time codes. Codes live in the
// database so any instance can verify them.
type OTPService struct {
	mailer Mailer
	stop   chan struct{}
}

var otpService *OTPService

// InitOTPService initializes the singleton OTP service and starts the expired
// code sweeper.
func InitOTPService(mailer Mailer) {
	otpService = &OTPService{
		mailer: mailer,
		stop:   make(chan struct{}),
	}
	go otpService.sweepLoop()
}

// GetOTPService returns the initialized OTP service.
func GetOTPService() *OTPService {
	return otpService
}

// Stop terminates the background sweeper.
func (s *OTPService) Stop() {
	close(s.stop)
}

// Issue generates a 6-digit code for the email, stores it with a 10 minute
// TTL, and mails it. Older codes for the same email and purpose are replaced.
func (s *OTPService) Issue(email, purpose string) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	db := database.GetDB()
	db.Where("email = ? AND purpose = ?", email, purpose).Delete(&models.EmailOTP{})

	otp := models.EmailOTP{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&otp).Error; err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	return s.mailer.Send(email, "Club Recruitment verification code", body)
}

// Verify checks a code and consumes it on success.
func (s *OTPService) Verify(email, purpose, code string) error {
	db := database.GetDB()

	var otp models.EmailOTP
	err := db.Where("email = ? AND purpose = ? AND code = ?", email, purpose, code).
		First(&otp).Error
	if err != nil {
		return ErrOTPInvalid
	}
	if time.Now().After(otp.ExpiresAt) {
		db.Delete(&otp)
		return ErrOTPInvalid
	}

	return db.Delete(&otp).Error
}

// sweepLoop purges expired codes every 15 minutes.
func (s *OTPService) sweepLoop() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			db := database.GetDB()
			result := db.Where("expires_at < ?", time.Now()).Delete(&models.EmailOTP{})
			if result.RowsAffected > 0 {
				log.Printf("Purged %d expired OTP codes", result.RowsAffected)
			}
		case <-s.stop:
			return
		}
	}
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
