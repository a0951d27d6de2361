package mailer

// Kinds of notification jobs the worker knows how to render.
const (
	KindWelcome     = "welcome"
	KindFriendAdded = "friend_added"
)

// Job is the JSON payload put on the RabbitMQ queue for sending a
// notification email. Kind selects a built-in subject/body; Data feeds
// the body (usernames, mostly). Subject/Text override the built-ins
// when set.
type Job struct {
	To      string            `json:"to"`
	Kind    string            `json:"kind,omitempty"`
	Subject string            `json:"subject,omitempty"`
	Text    string            `json:"text,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

// Render produces the subject and text body for a job. Explicit
// subject/text win over the kind templates.
func (j *Job) Render() (subject, text string) {
	subject, text = j.Subject, j.Text
	if subject != "" && text != "" {
		return subject, text
	}
	name := j.Data["username"]
	switch j.Kind {
	case KindWelcome:
		if subject == "" {
			subject = "Welcome to Atelier"
		}
		if text == "" {
			text = "Hi " + name + ",\n\nYour account is ready. Post your first work and share it with friends.\n"
		}
	case KindFriendAdded:
		if subject == "" {
			subject = j.Data["friend"] + " added you as a friend"
		}
		if text == "" {
			text = "Hi " + name + ",\n\n" + j.Data["friend"] + " added you to their friends list on Atelier.\n"
		}
	default:
		if subject == "" {
			subject = "Notification"
		}
	}
	return subject, text
}
