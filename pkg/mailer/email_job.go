package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names one of the embedded template sets; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"` // login_notification, profile_updated, phone_changed
	Data     map[string]any `json:"data,omitempty"`
}
