// Package messages builds Slack webhook payloads from host events.
//
// A Builder renders one event into a Message. Three builders exist, one per
// event generation: the default builder for ordinary log events and two
// alert builders for the host's first- and second-generation alert events.
// Each is a layout plugged into the same BuildMessage skeleton, which fills
// in the fallback text, username, icon and channel, picks the attachment
// color from the event level and then adds the layout's attachments:
//
//   - necessary attachments are always added; without them the message
//     cannot be interpreted reliably;
//   - optional attachments (property listings, stack traces, contributing
//     events) are skipped when Options.ExcludeOptionalAttachments is set.
//
// Registry selects the builder for an event by its EventType and falls back
// to the default builder for unknown types.
package messages
