package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/focusflow/pkg/agenda"
	"tableflip.dev/focusflow/pkg/glyph"
	"tableflip.dev/focusflow/pkg/task"
	"tableflip.dev/focusflow/pkg/timer"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69-f8b9-9dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// Tasks prints a task listing, one row per task.
func (pp *PrettyPrint) Tasks(tasks ...*task.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 60

	for _, t := range tasks {
		title := t.Title
		if t.Status == task.StatusDone {
			title = glyph.Strike(title)
		}
		cols := []interface{}{
			glyph.Focus(t.IsFocus),
			glyph.ForPriority(t.Priority),
			glyph.ForStatus(t.Status),
			title,
			minutesColumn(t),
			t.Category,
		}
		if pp.ShowID {
			cols = append([]interface{}{shortID(t.ID)}, cols...)
		}
		table.AddRow(cols...)
	}
	fmt.Println(table)
	fmt.Println("")
}

// Agenda prints the ordered focus list with its totals and the suggested
// next task.
func (pp *PrettyPrint) Agenda(members []*task.Task, totals agenda.Totals, suggested *task.Task, targetMinutes int) {
	if len(members) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" nothing in focus\n\n")
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for i, m := range members {
		if pp.ShowID {
			_, _ = y.Print(shortID(m.ID))
			_, _ = y.Print(strings.Repeat(" ", len(spacing)-len(shortID(m.ID))))
		}
		title := m.Title
		if m.Status == task.StatusDone {
			title = glyph.Strike(title)
		}
		_, _ = t.Printf("%2d %s %s %s  %s\n", i,
			glyph.ForPriority(m.Priority), glyph.ForStatus(m.Status), title, minutesColumn(m))
	}

	f := color.New(color.Faint)
	_, _ = f.Printf("\nreserved %dm, done %dm of %dm\n", totals.ReservedMinutes, totals.DoneMinutes, targetMinutes)
	if suggested != nil {
		s := color.New(color.Italic)
		_, _ = s.Printf("next up: %s\n", suggested.Title)
	}
	fmt.Println("")
}

// Timer prints the current timer snapshot.
func (pp *PrettyPrint) Timer(snap timer.Snapshot) {
	if snap.State != timer.Running {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" idle\n")
		return
	}

	b := color.New(color.Bold)
	_, _ = b.Printf("%s  %s / %s\n", snap.Title,
		clock(snap.ElapsedSeconds), clock(snap.TargetSeconds))
}

// Categories prints the category listing.
func (pp *PrettyPrint) Categories(categories ...*task.Category) {
	table := uitable.New()
	for _, c := range categories {
		if pp.ShowID {
			table.AddRow(shortID(c.ID), c.Name, c.Color)
		} else {
			table.AddRow(c.Name, c.Color)
		}
	}
	fmt.Println(table)
}

func minutesColumn(t *task.Task) string {
	switch {
	case t.EstimatedMinutes != nil && t.ActualMinutes != nil:
		return fmt.Sprintf("%dm/%dm", *t.ActualMinutes, *t.EstimatedMinutes)
	case t.EstimatedMinutes != nil:
		return fmt.Sprintf("%dm", *t.EstimatedMinutes)
	case t.ActualMinutes != nil:
		return fmt.Sprintf("%dm spent", *t.ActualMinutes)
	default:
		return ""
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
