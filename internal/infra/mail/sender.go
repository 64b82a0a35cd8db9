package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "no-reply@carnance.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendSyncFailureAlert mails the ops inbox about a lead that did not make it
// into the CRM.
func (s *EmailSender) SendSyncFailureAlert(to, leadID, leadName, code, reason string) error {
	data := SyncFailureAlertData{
		LeadID:   leadID,
		LeadName: leadName,
		Code:     code,
		Reason:   reason,
	}

	tmplPath := filepath.Join("templates", "sync_failure.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("reading alert template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering alert template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ CRM sync failed for lead %s", leadID))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending alert over SMTP: %w", err)
	}

	return nil
}
