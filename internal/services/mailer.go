package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"bank-gateway/internal/config"
)

// SMTPMailer delivers statement e-mails over plain SMTP with optional
// STARTTLS. It exists behind the Mailer interface so handlers never depend
// on the transport.
type SMTPMailer struct {
	mail     config.MailConfig
	bankName string
}

func NewSMTPMailer(mail config.MailConfig, bankName string) Mailer {
	return &SMTPMailer{mail: mail, bankName: bankName}
}

// SendStatement composes and sends the statement message with the PDF
// attached.
func (m *SMTPMailer) SendStatement(recipientEmail, firstname, startDate, endDate string, pdf []byte) error {
	subject := fmt.Sprintf("Your Bank Statement - %s to %s", startDate, endDate)
	filename := fmt.Sprintf("bank_statement_%s_to_%s.pdf", startDate, endDate)

	message, err := m.buildMessage(recipientEmail, subject, statementBody(firstname, startDate, endDate, m.bankName), filename, pdf)
	if err != nil {
		return fmt.Errorf("failed to compose statement email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.mail.Server, m.mail.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to mail server: %w", err)
	}
	defer client.Quit()

	if m.mail.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.mail.Server}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	// Authenticate only when the server offers it; an open relay (local
	// dev, in-cluster) never advertises AUTH
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", m.mail.Sender, m.mail.Password, m.mail.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.mail.Sender); err != nil {
		return err
	}
	if err := client.Rcpt(recipientEmail); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	slog.Info("statement email sent", "recipient", recipientEmail)
	return nil
}

func (m *SMTPMailer) buildMessage(recipient, subject, htmlBody, filename string, attachment []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%s\r\n\r\n",
		m.bankName, m.mail.Sender, recipient, subject, mw.Boundary(),
	)

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/html; charset=utf-8")
	bodyPart, err := mw.CreatePart(bodyHeader)
	if err != nil {
		return nil, err
	}
	if _, err := bodyPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	attachmentHeader := textproto.MIMEHeader{}
	attachmentHeader.Set("Content-Type", "application/pdf")
	attachmentHeader.Set("Content-Transfer-Encoding", "base64")
	attachmentHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	attachmentPart, err := mw.CreatePart(attachmentHeader)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(attachment)))
	base64.StdEncoding.Encode(encoded, attachment)
	if _, err := attachmentPart.Write(encoded); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return append([]byte(headers), buf.Bytes()...), nil
}

func statementBody(firstname, startDate, endDate, bankName string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Your Bank Statement</h2>
    <p>Dear %s,</p>
    <p>Please find attached your bank statement for the period
       <strong>%s</strong> to <strong>%s</strong>.</p>
    <p>If you have any questions about your statement, please contact our
       support team.</p>
    <p>Best regards,<br>%s</p>
    <p style="font-size: 12px; color: #777777;">
       This is an automated message. Please do not reply to this email.</p>
  </div>
</body>
</html>`, firstname, startDate, endDate, bankName)
}
