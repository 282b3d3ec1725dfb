package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/veridianlabs/atlasq/internal/citation"
	"github.com/veridianlabs/atlasq/internal/history"
	"github.com/veridianlabs/atlasq/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	citeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	dealStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("150"))
)

func printSnapshot(snap session.Snapshot) {
	switch snap.Phase {
	case session.PhaseAnswered:
		printAnswer(snap.Answer)
	case session.PhaseErrored:
		fmt.Println(errorStyle.Render(snap.ErrMsg))
	}
}

func printAnswer(a *session.Answer) {
	fmt.Println()
	fmt.Println(headingStyle.Render("QUESTION"))
	fmt.Println(a.Query)
	fmt.Println()
	fmt.Println(headingStyle.Render("ANSWER"))
	fmt.Println(a.Text)

	if len(a.Citations) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("CITATIONS"))
		for _, id := range a.Citations {
			fmt.Println("  " + citeStyle.Render(id))
		}
		fmt.Println(dimStyle.Render("(:cite <id> to view the clause)"))
	}
	fmt.Println()
}

func printCitation(c *citation.Citation) {
	fmt.Println()
	title := c.Meta.ClauseTitle
	if title == "" {
		title = "Untitled Clause"
	}
	fmt.Println(titleStyle.Render(title))
	fmt.Println(c.Content)

	section, clause := c.Meta.SectionID, c.Meta.ClauseID
	if section == "" {
		section = "N/A"
	}
	if clause == "" {
		clause = "N/A"
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("Section: %s | Clause: %s | Source ID: %s", section, clause, c.ID)))
	fmt.Println()
}

func printHistory(entries []history.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Println(dimStyle.Render("No history found."))
		return
	}

	groups := history.GroupByRecency(entries, now)
	for _, bucket := range history.BucketOrder {
		items := groups[bucket]
		if len(items) == 0 {
			continue
		}
		fmt.Println(headingStyle.Render(strings.ToUpper(string(bucket))))
		for _, e := range items {
			fmt.Printf("  %s  %s  %s\n",
				dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
				dealStyle.Render(e.Deal),
				e.Query)
		}
	}
}
