package messages

// Message is the JSON payload posted to a Slack incoming webhook.
type Message struct {
	Fallback    string        `json:"fallback,omitempty"`
	Text        string        `json:"text,omitempty"`
	Attachments []*Attachment `json:"attachments"`
	Username    string        `json:"username,omitempty"`
	IconURL     string        `json:"icon_url,omitempty"`
	Channel     string        `json:"channel,omitempty"`
}

// Attachment is a colored section of a message.
type Attachment struct {
	Color      string   `json:"color"`
	Text       string   `json:"text,omitempty"`
	Title      string   `json:"title,omitempty"`
	Fields     []Field  `json:"fields,omitempty"`
	MarkdownIn []string `json:"mrkdwn_in,omitempty"`
}

// Field is one title/value pair inside an attachment. Short fields may be
// laid out side by side.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// newAttachment returns an attachment with the given text and title. When
// markdown is set Slack renders the text as mrkdwn.
func newAttachment(color, text, title string, markdown bool) *Attachment {
	a := &Attachment{Color: color, Text: text, Title: title}
	if markdown {
		a.MarkdownIn = []string{"text"}
	}
	return a
}

// AddField appends a field to the attachment.
func (a *Attachment) AddField(title, value string, short bool) {
	a.Fields = append(a.Fields, Field{Title: title, Value: value, Short: short})
}

// isEmpty reports whether the attachment has nothing to display.
func (a *Attachment) isEmpty() bool {
	return len(a.Fields) == 0 && a.Text == ""
}

// Attach appends a to the message unless it has neither text nor fields.
func (m *Message) Attach(a *Attachment) {
	if a == nil || a.isEmpty() {
		return
	}
	m.Attachments = append(m.Attachments, a)
}
