package mailer

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Kanze89/adscraper/internal/config"
)

func init() {
	// Minimal installs ship no /etc/mime.types; register the bundle
	// formats so attachments are typed the same everywhere.
	mime.AddExtensionType(".zip", "application/zip")
	mime.AddExtensionType(".csv", "text/csv")
	mime.AddExtensionType(".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// Mailer sends the weekly bundle email through an authenticated SMTP
// relay. Delivery is best effort: missing configuration downgrades a
// send to a logged warning, and a broken attachment never aborts the
// message.
type Mailer struct {
	cfg    config.MailConfig
	logger *slog.Logger

	// send delivers the assembled message; replaced in tests.
	send func(m *gomail.Message) error
}

// New creates a mailer from SMTP configuration.
func New(cfg config.MailConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mailer{cfg: cfg, logger: logger}
	m.send = m.dialAndSend
	return m
}

// Send delivers one message with the given attachments. Paths that do
// not exist are skipped; attachments that cannot be read are logged
// and skipped. With incomplete SMTP configuration no network action
// happens and nil is returned.
func (m *Mailer) Send(subject, body string, attachments []string) error {
	if !m.cfg.CanSend() {
		m.logger.Warn("email not sent, SMTP configuration incomplete",
			slog.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.Recipients()...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	attached := 0
	for _, path := range attachments {
		if _, err := os.Stat(path); err != nil {
			m.logger.Debug("attachment missing, skipping",
				slog.String("path", path))
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.logger.Warn("failed to read attachment, skipping",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}

		name := filepath.Base(path)
		msg.Attach(name,
			gomail.SetHeader(map[string][]string{
				"Content-Type": {attachmentType(name)},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
		attached++
	}

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("to", strings.Join(m.cfg.Recipients(), ", ")),
		slog.String("subject", subject),
		slog.Int("attachments", attached))
	return nil
}

// dialAndSend opens an authenticated STARTTLS session to the relay and
// delivers the message.
func (m *Mailer) dialAndSend(msg *gomail.Message) error {
	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	return d.DialAndSend(msg)
}

// attachmentType guesses a MIME type from the file name. Compressed
// containers and unknown extensions go out as opaque binary.
func attachmentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".bz2", ".xz", ".zst":
		return "application/octet-stream"
	}
	if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
		return ctype
	}
	return "application/octet-stream"
}
