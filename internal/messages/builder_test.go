package messages

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slackrelay/slackrelay/pkg/types"
)

const testBaseURI = "https://seq.example.com/"

func testOptions() Options {
	return Options{AppTitle: "Slack Notifier", BaseURI: testBaseURI}
}

func logEvent(props types.Properties) *types.Event {
	return &types.Event{
		ID:              "event-1",
		Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Level:           types.LevelInformation,
		RenderedMessage: "Hello, world",
		Properties:      props,
	}
}

// attachmentTitled returns the first attachment with the given title, or nil.
func attachmentTitled(m *Message, title string) *Attachment {
	for _, a := range m.Attachments {
		if a.Title == title {
			return a
		}
	}
	return nil
}

func fieldTitles(a *Attachment) []string {
	var out []string
	for _, f := range a.Fields {
		out = append(out, f.Title)
	}
	return out
}

func TestBuilder_CommonFields(t *testing.T) {
	evt := logEvent(nil)
	evt.Level = types.LevelWarning

	m := NewDefault(testOptions()).BuildMessage(evt)

	assert.Equal(t, "[Warning] Hello, world", m.Fallback)
	assert.Equal(t, "Slack Notifier", m.Username)
	assert.Equal(t, DefaultIconURL, m.IconURL)
	assert.Empty(t, m.Channel)
	for _, a := range m.Attachments {
		assert.Equal(t, "#f9c019", a.Color)
	}
}

func TestBuilder_UsernameSubstitution(t *testing.T) {
	opts := testOptions()
	opts.Username = "[Application] bot"
	opts.Channel = "#ops"
	opts.IconURL = "https://example.com/icon.png"

	evt := logEvent(types.Properties{{Name: "Application", Value: "billing"}})
	m := NewDefault(opts).BuildMessage(evt)

	assert.Equal(t, "billing bot", m.Username)
	assert.Equal(t, "#ops", m.Channel)
	assert.Equal(t, "https://example.com/icon.png", m.IconURL)
}

func TestBuilder_UsernameIgnoresDerivedValues(t *testing.T) {
	opts := testOptions()
	opts.Username = "[Level] bot"

	m := NewDefault(opts).BuildMessage(logEvent(nil))
	assert.Equal(t, "[Level] bot", m.Username)
}

func TestDefault_Text(t *testing.T) {
	evt := logEvent(nil)
	evt.RenderedMessage = "a < b & c"

	m := NewDefault(testOptions()).BuildMessage(evt)

	link := "<https://seq.example.com/#/events?filter=@Id%20%3D%3D%20%22event-1%22&show=expanded|View this event in Seq>"
	assert.Equal(t, "a &lt; b &amp; c ("+link+")", m.Text)
	require.NotEmpty(t, m.Attachments)
	assert.Equal(t, link, m.Attachments[0].Text)
}

func TestDefault_CustomTemplate(t *testing.T) {
	opts := testOptions()
	opts.MessageTemplate = "[Level]: [User] did it"

	evt := logEvent(types.Properties{{Name: "User", Value: "alice"}})
	m := NewDefault(opts).BuildMessage(evt)

	assert.Contains(t, m.Text, "Information: alice did it (")
}

func TestDefault_OptionalAttachments(t *testing.T) {
	evt := logEvent(types.Properties{
		{Name: "Host", Value: "web-01"},
		{Name: "Id", Value: json.Number("42")},
		{Name: "StackTrace", Value: "at main()\r\nat run()"},
		{Name: "Elapsed", Value: 12.5},
		{Name: "Nested", Value: map[string]any{"a": nil, "b": "x"}},
	})
	evt.Level = types.LevelError
	evt.Exception = "boom"

	m := NewDefault(testOptions()).BuildMessage(evt)
	require.Len(t, m.Attachments, 5)

	special := m.Attachments[1]
	assert.Equal(t, []string{"Level", "Id", "Host"}, fieldTitles(special))
	assert.Equal(t, "Error", special.Fields[0].Value)
	assert.Equal(t, "42", special.Fields[1].Value)
	for _, f := range special.Fields {
		assert.True(t, f.Short)
	}

	exc := attachmentTitled(m, "Exception Details")
	require.NotNil(t, exc)
	assert.Equal(t, "```\nboom\n```", exc.Text)
	assert.Equal(t, []string{"text"}, exc.MarkdownIn)

	st := attachmentTitled(m, "Stack Trace")
	require.NotNil(t, st)
	assert.Equal(t, "```\nat main()\nat run()\n```", st.Text)

	props := attachmentTitled(m, "Properties")
	require.NotNil(t, props)
	assert.Equal(t, []string{"Elapsed", "Nested"}, fieldTitles(props))
	assert.Equal(t, "12.5", props.Fields[0].Value)
	assert.Equal(t, `{"b":"x"}`, props.Fields[1].Value)
	assert.False(t, props.Fields[0].Short)
}

func TestDefault_NonStringStackTraceIsListed(t *testing.T) {
	evt := logEvent(types.Properties{{Name: "StackTrace", Value: json.Number("1")}})

	m := NewDefault(testOptions()).BuildMessage(evt)

	assert.Nil(t, attachmentTitled(m, "Stack Trace"))
	assert.Nil(t, attachmentTitled(m, "Properties"))
}

func TestDefault_IncludedProperties(t *testing.T) {
	props := types.Properties{
		{Name: "A", Value: "1"},
		{Name: "B", Value: "2"},
		{Name: "C", Value: "3"},
	}

	tests := []struct {
		name     string
		included []string
		want     []string
	}{
		{"empty list shows all", nil, []string{"A", "B", "C"}},
		{"names are trimmed", []string{" A", "C "}, []string{"A", "C"}},
		{"unknown names ignored", []string{"B", "Missing"}, []string{"B"}},
		{"blank entries ignored", []string{"", "  "}, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.IncludedProperties = tt.included

			m := NewDefault(opts).BuildMessage(logEvent(props))

			a := attachmentTitled(m, "Properties")
			require.NotNil(t, a)
			assert.Equal(t, tt.want, fieldTitles(a))
		})
	}
}

func TestDefault_NoMatchingPropertiesOmitsAttachment(t *testing.T) {
	opts := testOptions()
	opts.IncludedProperties = []string{"Missing"}

	m := NewDefault(opts).BuildMessage(logEvent(types.Properties{{Name: "A", Value: "1"}}))
	assert.Nil(t, attachmentTitled(m, "Properties"))
}

func TestDefault_Truncation(t *testing.T) {
	opts := testOptions()
	opts.MaxPropertyLength = 5

	m := NewDefault(opts).BuildMessage(logEvent(types.Properties{{Name: "Long", Value: "abcdefghij"}}))

	a := attachmentTitled(m, "Properties")
	require.NotNil(t, a)
	assert.Equal(t, "abcde...", a.Fields[0].Value)
}

func TestDefault_ExcludeOptional(t *testing.T) {
	opts := testOptions()
	opts.ExcludeOptionalAttachments = true

	evt := logEvent(types.Properties{{Name: "A", Value: "1"}})
	evt.Exception = "boom"
	m := NewDefault(opts).BuildMessage(evt)

	require.Len(t, m.Attachments, 1)
	assert.Contains(t, m.Attachments[0].Text, "View this event in Seq")
}

func TestBuilder_LevelColors(t *testing.T) {
	tests := []struct {
		level types.Level
		color string
	}{
		{types.LevelVerbose, "#D3D3D3"},
		{types.LevelDebug, "#D3D3D3"},
		{types.LevelInformation, "#00A000"},
		{types.LevelWarning, "#f9c019"},
		{types.LevelError, "#e03836"},
		{types.LevelFatal, "#e03836"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			evt := logEvent(nil)
			evt.Level = tt.level
			m := NewDefault(testOptions()).BuildMessage(evt)
			require.NotEmpty(t, m.Attachments)
			assert.Equal(t, tt.color, m.Attachments[0].Color)
		})
	}
}

func TestMessage_EmptyAttachmentsSkipped(t *testing.T) {
	m := &Message{}
	m.Attach(newAttachment("#fff", "", "Title only", true))
	m.Attach(nil)
	assert.Empty(t, m.Attachments)

	m.Attach(newAttachment("#fff", "text", "", false))
	assert.Len(t, m.Attachments, 1)
}

func TestMessage_JSON(t *testing.T) {
	m := &Message{Fallback: "[Information] hi", Attachments: []*Attachment{}}
	a := newAttachment("#00A000", "body", "", true)
	a.AddField("k", "v", true)
	m.Attach(a)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fallback": "[Information] hi",
		"attachments": [{
			"color": "#00A000",
			"text": "body",
			"fields": [{"title": "k", "value": "v", "short": true}],
			"mrkdwn_in": ["text"]
		}]
	}`, string(data))
}

func TestRegistry_Selection(t *testing.T) {
	r := NewRegistry(testOptions())

	alert1 := logEvent(nil)
	alert1.EventType = types.EventTypeAlertV1
	assert.Contains(t, r.BuildMessage(alert1).Text, "Alert condition ``")

	alert2 := logEvent(nil)
	alert2.EventType = types.EventTypeAlertV2
	assert.Contains(t, r.BuildMessage(alert2).Text, "Alert condition triggered by")

	other := logEvent(nil)
	other.EventType = 0x1234
	assert.Contains(t, r.BuildMessage(other).Text, "View this event in Seq")
}
