// Package slack posts rendered messages to Slack incoming webhooks.
//
// A Client is built once per configuration and is safe for concurrent use.
// Delivery is a single attempt; failures are returned to the caller.
package slack
