package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var verifyEmailTpl = template.Must(template.New("verify_email").Parse(`
<p>Hi {{.Username}},</p>
<p>Your verification code is: <strong>{{.Code}}</strong></p>
<p>Enter it in the app to finish creating your account.</p>
`))

var resetPasswordTpl = template.Must(template.New("reset_password").Parse(`
<p>Hi {{.Username}},</p>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
<p>The link expires in one hour. If you did not ask for this, you can ignore this email.</p>
`))

// Render produces subject, plain-text and HTML bodies for a job template.
func Render(job EmailJob) (subject, text, html string, err error) {
	switch job.Template {
	case JobVerifyEmail:
		var buf bytes.Buffer
		if err := verifyEmailTpl.Execute(&buf, job.Data); err != nil {
			return "", "", "", err
		}
		subject = "Email Verification"
		text = "Your verification code is: " + job.Data["Code"]
		return subject, text, buf.String(), nil
	case JobResetPassword:
		var buf bytes.Buffer
		if err := resetPasswordTpl.Execute(&buf, job.Data); err != nil {
			return "", "", "", err
		}
		subject = "Password Reset"
		text = "Reset your password: " + job.Data["ResetURL"]
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
