// Package glyph maps task state to the symbols the CLI printers use.
package glyph

import (
	"fmt"

	"tableflip.dev/focusflow/pkg/task"
)

const (
	escape     = "\x1b"
	resetCode  = 0
	boldCode   = 1
	underCode  = 4
	strikeCode = 9
)

// Strike renders text with a strikethrough escape.
func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

// Bold renders text bold.
func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

// Underline renders text underlined.
func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underCode, in, escape, resetCode)
}

// ForStatus returns the bullet symbol for a task status.
func ForStatus(s task.Status) string {
	switch s {
	case task.StatusDone:
		return "✘"
	case task.StatusSnoozed:
		return "‹"
	default:
		return "●"
	}
}

// ForPriority returns the signifier column for a priority. Only high
// priority carries a mark, matching how signifiers read in a journal.
func ForPriority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "✷"
	case task.PriorityLow:
		return "·"
	default:
		return " "
	}
}

// Focus marks agenda membership in list output.
func Focus(isFocus bool) string {
	if isFocus {
		return "◎"
	}
	return " "
}
