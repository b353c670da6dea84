// Package config loads the relay configuration from the `relay:` section of
// a YAML file.
//
// Config fields:
//   - WebhookURL / WebhookURLEnv: Slack incoming webhook; the env variable wins when set
//   - Channel, Username, IconURL: message overrides; Username may hold [Property] tokens
//   - SuppressionMinutes: per event type quiet window (default 0, disabled)
//   - ExcludeOptionalAttachments: send only the attachments needed to read the message
//   - MessageTemplate: body template (default "[RenderedMessage]")
//   - MaxPropertyLength: truncate property values (0 disables)
//   - IncludedProperties: comma separated allow-list for the property listing
//   - AppTitle, BaseURI: posting name fallback and root of event links
//   - ProxyServer, Timeout: outbound HTTP settings (default timeout 10s)
//   - Listen, LogLevel: HTTP listen address (default ":8080") and slog level
//   - Auth.Mode/KeyEnv/Header: "apikey" or "none" for the inbound API
//
// Load(path) applies defaults before unmarshalling, then validates. Watch
// reloads the file on change.
package config
