// Package driving defines the interfaces the CLI and TUI layers consume.
package driving
