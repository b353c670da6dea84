// Package reactor runs the relay pipeline for each incoming event: the
// suppression gate, builder selection by event type, message construction
// and delivery to Slack.
package reactor
