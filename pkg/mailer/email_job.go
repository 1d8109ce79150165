package mailer

// Job types understood by the email worker.
const (
	JobVerifyEmail   = "verify_email"
	JobResetPassword = "reset_password"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// For verify_email jobs Data carries Username and Code; for reset_password
// jobs it carries Username and ResetURL.
type EmailJob struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data,omitempty"`
}
