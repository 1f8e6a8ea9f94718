// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [InputView] : Type a "Track by Artist" query; catalog suggestions update as you type
//  2. [ResultView] : Follow the search as it runs, then browse producer sections with catalog links
//
// The [Model] implements the standard Init/Update/View pattern. Search progress flows through a
// channel from the finder, one event per message, so sections render as soon as they complete.
//
// Suggestions are fetched after a short typing pause; stale responses are dropped by sequence number.
package ui
