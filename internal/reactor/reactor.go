package reactor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slackrelay/slackrelay/internal/config"
	"github.com/slackrelay/slackrelay/internal/messages"
	"github.com/slackrelay/slackrelay/internal/metrics"
	"github.com/slackrelay/slackrelay/internal/slack"
	"github.com/slackrelay/slackrelay/internal/suppression"
	"github.com/slackrelay/slackrelay/pkg/types"
)

// Sender delivers a rendered message. *slack.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, msg *messages.Message) error
}

// Reactor turns events into Slack messages. One Reactor corresponds to one
// configuration lifetime; its suppression state starts empty.
//
// Reactor is safe for concurrent use.
type Reactor struct {
	filter   *suppression.Filter
	registry *messages.Registry
	sender   Sender
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New creates a Reactor. m may be nil.
func New(opts messages.Options, suppressionMinutes int, sender Sender, m *metrics.Metrics) *Reactor {
	return &Reactor{
		filter:   suppression.New(suppressionMinutes),
		registry: messages.NewRegistry(opts),
		sender:   sender,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FromConfig builds the Slack client and Reactor described by cfg.
func FromConfig(cfg config.RelayConfig, m *metrics.Metrics) (*Reactor, error) {
	client, err := slack.New(slack.Config{
		WebhookURL:  cfg.ResolvedWebhookURL(),
		ProxyServer: cfg.ProxyServer,
		Timeout:     cfg.Timeout,
	}, m)
	if err != nil {
		return nil, fmt.Errorf("reactor: %w", err)
	}
	return New(OptionsFromConfig(cfg), cfg.SuppressionMinutes, client, m), nil
}

// OptionsFromConfig maps relay settings onto builder options.
func OptionsFromConfig(cfg config.RelayConfig) messages.Options {
	return messages.Options{
		AppTitle:                   cfg.AppTitle,
		BaseURI:                    cfg.BaseURI,
		Channel:                    cfg.Channel,
		Username:                   cfg.Username,
		IconURL:                    cfg.IconURL,
		MessageTemplate:            cfg.MessageTemplate,
		ExcludeOptionalAttachments: cfg.ExcludeOptionalAttachments,
		IncludedProperties:         cfg.IncludedPropertyList(),
		MaxPropertyLength:          cfg.MaxPropertyLength,
	}
}

// On handles one event. A suppressed event returns (false, nil). A delivery
// failure is logged and returned; it is not retried.
func (r *Reactor) On(ctx context.Context, evt *types.Event) (sent bool, err error) {
	r.metrics.EventReceived(evt.EventType)

	if r.filter.ShouldSuppressAt(evt.EventType, r.now()) {
		r.metrics.EventSuppressed(evt.EventType)
		slog.Debug("reactor: event suppressed",
			"event_id", evt.ID,
			"event_type", evt.EventType.String(),
			"window", r.filter.Window(),
		)
		return false, nil
	}

	msg := r.Render(evt)
	if err := r.sender.Send(ctx, msg); err != nil {
		slog.Error("reactor: delivery failed",
			"event_id", evt.ID,
			"event_type", evt.EventType.String(),
			"err", err,
		)
		return false, fmt.Errorf("reactor: send event %s: %w", evt.ID, err)
	}

	slog.Debug("reactor: message delivered",
		"event_id", evt.ID,
		"event_type", evt.EventType.String(),
		"alert", evt.IsAlert(),
		"attachments", len(msg.Attachments),
	)
	return true, nil
}

// Render builds the message for evt without suppression or delivery.
func (r *Reactor) Render(evt *types.Event) *messages.Message {
	return r.registry.BuildMessage(evt)
}
