package services

import (
	"fmt"
	"log"
	"net/smtp"
)

type EmailService interface {
	SendTemporaryPassword(email, password string) error
	SendInquiryStatusUpdate(email, name, status string) error
	SendNewInquiryAlert(email, studentName, studentEmail string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
}

func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}
}

func (m *SMTPMailer) SendTemporaryPassword(email, password string) error {
	body := fmt.Sprintf("Your temporary password: %s\r\n\r\nPlease sign in and set a new password.", password)
	return m.send(email, "Your account credentials", body)
}

func (m *SMTPMailer) SendInquiryStatusUpdate(email, name, status string) error {
	body := fmt.Sprintf("Dear %s,\r\n\r\nYour admission inquiry status has been updated to: %s.", name, status)
	return m.send(email, "Admission inquiry update", body)
}

func (m *SMTPMailer) SendNewInquiryAlert(email, studentName, studentEmail string) error {
	body := fmt.Sprintf("New inquiry received from %s (%s).", studentName, studentEmail)
	return m.send(email, "New admission inquiry", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.Username, to, subject, body,
	)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.Username, []string{to}, []byte(message)); err != nil {
		log.Println("[MAIL] Failed to send email:", err)
		return err
	}
	return nil
}
