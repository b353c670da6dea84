package messages

import (
	"strings"

	"github.com/slackrelay/slackrelay/internal/formatting"
	"github.com/slackrelay/slackrelay/pkg/types"
)

// DefaultIconURL is the icon shown next to messages when none is configured.
const DefaultIconURL = "https://datalust.co/images/nuget/seq-apps.png"

// Options configures every builder. Values are fixed for the lifetime of an
// app instance.
type Options struct {
	// AppTitle is the username used when Username is empty.
	AppTitle string

	// BaseURI is the host UI root used for links back to events.
	BaseURI string

	// Channel overrides the webhook's default channel when set.
	Channel string

	// Username overrides the posting name. It may contain placeholders,
	// which are resolved from event properties only.
	Username string

	// IconURL overrides DefaultIconURL.
	IconURL string

	// MessageTemplate is the body template for log events (default
	// "[RenderedMessage]") and an extra markdown attachment for alerts.
	MessageTemplate string

	// ExcludeOptionalAttachments drops property listings and other
	// attachments that do not change the meaning of a message.
	ExcludeOptionalAttachments bool

	// IncludedProperties limits the "Properties" attachment of log events
	// to these names. Empty means all properties.
	IncludedProperties []string

	// MaxPropertyLength truncates property values; zero disables.
	MaxPropertyLength int
}

// Builder renders one event into a Slack message.
type Builder interface {
	BuildMessage(evt *types.Event) *Message
}

// layout supplies the per-generation parts of a message.
type layout interface {
	// text returns the main message text.
	text(evt *types.Event) string

	// necessary adds attachments without which the message cannot be
	// reliably interpreted.
	necessary(m *Message, evt *types.Event, color string)

	// optional adds attachments that do not change the meaning of the
	// message.
	optional(m *Message, evt *types.Event, color string)
}

// builder assembles a Message from the shared options and a layout.
type builder struct {
	opts   Options
	layout layout
}

// BuildMessage implements Builder.
func (b *builder) BuildMessage(evt *types.Event) *Message {
	m := &Message{
		Fallback:    "[" + evt.Level.String() + "] " + evt.RenderedMessage,
		Text:        b.layout.text(evt),
		Attachments: []*Attachment{},
		Username:    b.username(evt),
		IconURL:     b.iconURL(),
		Channel:     b.opts.Channel,
	}

	color := formatting.LevelToColor(evt.Level)
	b.layout.necessary(m, evt, color)
	if !b.opts.ExcludeOptionalAttachments {
		b.layout.optional(m, evt, color)
	}
	return m
}

func (b *builder) username(evt *types.Event) string {
	if strings.TrimSpace(b.opts.Username) == "" {
		return b.opts.AppTitle
	}
	return formatting.SubstitutePlaceholders(b.opts.Username, evt, false)
}

func (b *builder) iconURL() string {
	if strings.TrimSpace(b.opts.IconURL) == "" {
		return DefaultIconURL
	}
	return b.opts.IconURL
}

// resultsLink is the necessary attachment shared by both alert generations.
func resultsLink(resultsURL, color string) *Attachment {
	return newAttachment(color, formatting.Hyperlink(resultsURL, "Explore detected results in Seq"), "", false)
}

// Registry maps event types to builders.
type Registry struct {
	builders map[types.EventType]Builder
	fallback Builder
}

// NewRegistry returns a Registry holding the default builder and the two
// alert builders, all configured from opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		builders: map[types.EventType]Builder{
			types.EventTypeAlertV1: NewAlertV1(opts),
			types.EventTypeAlertV2: NewAlertV2(opts),
		},
		fallback: NewDefault(opts),
	}
}

// For returns the builder registered for t, or the default builder.
func (r *Registry) For(t types.EventType) Builder {
	if b, ok := r.builders[t]; ok {
		return b
	}
	return r.fallback
}

// BuildMessage renders evt with the builder selected by its event type.
func (r *Registry) BuildMessage(evt *types.Event) *Message {
	return r.For(evt.EventType).BuildMessage(evt)
}
