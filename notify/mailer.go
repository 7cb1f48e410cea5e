// Package notify implements the outbound notification channels: SMTP email
// (with optional PDF attachment), WhatsApp messaging and headless-browser
// PDF rendering. All senders are constructed explicitly and passed in;
// there are no package-level singletons.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// Mailer sends HTML email through a configured SMTP relay account.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewMailer creates a mailer for the given SMTP relay.
func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Configured reports whether the relay credentials are present.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.username != "" && m.password != "" && m.from != ""
}

// Send transmits an HTML email. When attachment is non-nil it is included
// as a PDF file named attachmentName in a multipart/mixed message.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, attachmentName string) error {
	if to == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if !m.Configured() {
		return fmt.Errorf("SMTP relay is not configured")
	}

	var msg []byte
	if attachment == nil {
		msg = []byte(fmt.Sprintf("To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n", to, m.from, subject, htmlBody))
	} else {
		var err error
		msg, err = m.buildMultipart(to, subject, htmlBody, attachment, attachmentName)
		if err != nil {
			return fmt.Errorf("failed to build message: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) buildMultipart(to, subject, htmlBody string, attachment []byte, attachmentName string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "From: %s\r\n", m.from)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	attachmentPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachmentName)},
	})
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// RFC 2045 line length limit.
	for len(encoded) > 76 {
		if _, err := attachmentPart.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[76:]
	}
	if _, err := attachmentPart.Write([]byte(encoded + "\r\n")); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
