package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

// progressBar draws a single-line bar on a terminal. On anything else it
// stays silent so redirected output is not filled with carriage returns.
type progressBar struct {
	out   *os.File
	label string
	bar   progress.Model
	tty   bool
	drawn bool
}

func newProgressBar(out *os.File, label string) *progressBar {
	fd := int(out.Fd())
	tty := term.IsTerminal(fd)

	width := 40
	if tty {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 40 {
			width = min(cols-len(label)-20, 60)
		}
	}

	return &progressBar{
		out:   out,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(width)),
		tty:   tty,
	}
}

// Update matches tsr.Progress.
func (p *progressBar) Update(completed, total int) {
	if !p.tty || total == 0 {
		return
	}
	pct := float64(completed) / float64(total)
	fmt.Fprintf(p.out, "\r%s %s %d/%d", p.label, p.bar.ViewAs(pct), completed, total)
	p.drawn = true
}

// Finish ends the bar's line.
func (p *progressBar) Finish() {
	if p.drawn {
		fmt.Fprintln(p.out)
		p.drawn = false
	}
}
