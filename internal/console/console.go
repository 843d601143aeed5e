// Copyright (c) Microsoft. All rights reserved.

// Package console prints sample output and runs interactive prompts.
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

var (
	accent   = lipgloss.AdaptiveColor{Light: "#2D5BFF", Dark: "#7AA2F7"}
	subtle   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	positive = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	warning  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	danger   = lipgloss.Color("#ef4444")
)

// Printer writes styled output. Styles degrade to plain text when w is not
// a terminal.
type Printer struct {
	w io.Writer

	title   lipgloss.Style
	section lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(accent).Border(lipgloss.NormalBorder()).BorderForeground(accent).Padding(0, 1),
		section: r.NewStyle().Bold(true).Foreground(accent),
		muted:   r.NewStyle().Foreground(subtle),
		label:   r.NewStyle().Bold(true).Foreground(positive),
		success: r.NewStyle().Foreground(positive),
		warn:    r.NewStyle().Foreground(warning),
		err:     r.NewStyle().Bold(true).Foreground(danger),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Banner prints a boxed title.
func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.w, p.title.Render(title))
}

// Section prints a section heading preceded by a blank line.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.section.Render(title))
}

// KeyValue prints an indented "key: value" line.
func (p *Printer) KeyValue(key string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", p.muted.Render(key+":"), value)
}

// Label renders a speaker label such as "You:".
func (p *Printer) Label(name string) string {
	return p.label.Render(name + ":")
}

// Println prints a plain line.
func (p *Printer) Println(a ...any) { fmt.Fprintln(p.w, a...) }

// Printf prints formatted text.
func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// Info prints a muted line.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf(format, a...)))
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintln(p.w, p.success.Render("✓ "+fmt.Sprintf(format, a...)))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.w, p.warn.Render("! "+fmt.Sprintf(format, a...)))
}

// Error prints err.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.err.Render("Error: "+err.Error()))
}

// Usage prints token counts followed by any additional counters in name order.
func (p *Printer) Usage(u af.UsageDetails) {
	p.KeyValue("Input tokens", u.InputTokens)
	p.KeyValue("Output tokens", u.OutputTokens)
	p.KeyValue("Total tokens", u.TotalTokens)
	names := make([]string, 0, len(u.AdditionalCounts))
	for name := range u.AdditionalCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.KeyValue(name, u.AdditionalCounts[name])
	}
}

// Citations prints numbered citations, skipping duplicates.
func (p *Printer) Citations(anns []af.Annotation) {
	seen := map[string]bool{}
	n := 0
	for _, a := range anns {
		ref := a.URL
		if ref == "" {
			ref = a.FileID
		}
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		if n == 0 {
			fmt.Fprintln(p.w, p.muted.Render("Citations:"))
		}
		n++
		title := strings.TrimSpace(a.Title)
		if title != "" && title != ref {
			fmt.Fprintf(p.w, "  [%d] %s (%s)\n", n, title, ref)
		} else {
			fmt.Fprintf(p.w, "  [%d] %s\n", n, ref)
		}
	}
}
