// ABOUTME: Package format renders bridge results into voice-ready text.
// ABOUTME: Result type, voice summaries, suggested actions, relative ages.
package format
