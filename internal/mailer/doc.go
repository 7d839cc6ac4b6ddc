// Package mailer delivers the weekly banner bundle by email. It is
// best-effort infrastructure: incomplete SMTP configuration skips the
// send with a warning instead of failing the run.
package mailer
