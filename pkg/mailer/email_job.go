package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects a built-in message body; Data feeds its placeholders.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// Render fills in subject and text for known templates. Jobs with an unknown
// template are returned unchanged so explicit subject/text still work.
func (j *EmailJob) Render() {
	switch j.Template {
	case "welcome":
		name, _ := j.Data["Name"].(string)
		username, _ := j.Data["UserName"].(string)
		j.Subject = "Welcome aboard"
		j.Text = fmt.Sprintf("Hi %s,\n\nYour account %q is ready. You can sign in with your email and password.\n", name, username)
	}
}
