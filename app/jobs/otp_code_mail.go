// Package jobs defines the background jobs pushed onto the queue.
package jobs

import (
	"github.com/Zin-Mg-Nyunt/shopping/config"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/mail"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/queue"
)

// otpTemplate is resolved relative to the working directory the binary
// serves from, same as config/app.json.
const otpTemplate = "resources/views/mail/otp_code.html"

// OtpCodeMail delivers a password-reset code. Dispatched fire-and-forget:
// a delivery failure is retried by the queue workers and never surfaces
// to the requester.
type OtpCodeMail struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Handle sends the email.
func (j *OtpCodeMail) Handle() error {
	return mail.To(j.Email).
		Subject(config.AppName() + " – Your verification code").
		Template(otpTemplate, map[string]string{
			"AppName": config.AppName(),
			"Code":    j.Code,
		}).
		Send()
}

// Register wires the job type into the queue registry. Call once at boot.
func Register() {
	queue.Register("*jobs.OtpCodeMail", func() queue.Job { return &OtpCodeMail{} })
}
