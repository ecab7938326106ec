// Package commands defines the sealchat CLI: identity management, chat
// management, sending, history, one-shot sync and the foreground watcher.
package commands
