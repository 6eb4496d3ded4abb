package domain

// Attachment is an image carried by a message. MediaType and Payload are
// set whenever the attachment exists; Payload is standard base64
// and may be empty only for a zero-length image.
type Attachment struct {
	MediaType string
	Payload   string
}

func (a *Attachment) Present() bool {
	return a != nil && a.MediaType != ""
}

// ChatMessage is one entry of a session log (user or model).
type ChatMessage struct {
	ID        MessageID
	Role      Role
	Text      string // may be empty when Image is present
	Image     *Attachment
	CreatedAt Timestamp
}

// Task is the unit the user asks for help with.
type Task struct {
	ID          TaskID
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   Timestamp
}

// Preferences holds the display settings persisted next to the task list.
// An empty Language means the configured default applies.
type Preferences struct {
	Theme    Theme
	Language Language
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight}
}
