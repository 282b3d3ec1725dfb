package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/veridianlabs/atlasq/internal/deals"
)

const replHelp = `Commands:
  :deals            list deals, * marks the active one
  :use <deal>       switch the active deal
  :reload           re-fetch the deal list
  :cite <id>        show the clause behind a citation id
  :find <term>      full-text search across clauses fetched this session
  :search <term>    retrieval-only search against the active deal
  :history [term]   browse (or filter) past queries
  :clear            wipe query history
  :new              discard the current answer, start fresh
  :help             this text
  :quit             exit

Anything else is asked as a question against the active deal.`

func runREPL(ctx context.Context, rt *runtime) error {
	fmt.Println(titleStyle.Render("Veridian Atlas"))
	fmt.Println(dimStyle.Render("Precision Search. Verified Citations."))
	fmt.Println()

	if err := rt.deals.Load(ctx); err != nil {
		fmt.Println(errorStyle.Render(deals.LoadFailureMessage))
		fmt.Println(dimStyle.Render("(:reload to retry)"))
	} else if deal, ok := rt.deals.Selected(); ok {
		fmt.Printf("Active deal: %s  %s\n", dealStyle.Render(deal), dimStyle.Render("(:deals to switch)"))
	}
	fmt.Println(dimStyle.Render(":help for commands"))

	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("atlas> ")
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := runREPLCommand(ctx, rt, line); quit {
				return nil
			}
			continue
		}

		if !rt.deals.Available() {
			fmt.Println(errorStyle.Render("You cannot query without a deal. It's like asking a bank for money without an account."))
			fmt.Println(dimStyle.Render("(:reload to retry fetching deals)"))
			continue
		}

		if rt.orch.Submit(ctx, line) {
			printSnapshot(rt.orch.Snapshot())
		}
	}
	return s.Err()
}

// runREPLCommand handles one ":" command. Returns true to exit.
func runREPLCommand(ctx context.Context, rt *runtime, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":quit", ":q", ":exit":
		return true

	case ":help":
		fmt.Println(replHelp)

	case ":deals":
		selected, _ := rt.deals.Selected()
		all := rt.deals.Deals()
		if len(all) == 0 {
			fmt.Println(dimStyle.Render("No deals loaded. :reload to retry."))
			break
		}
		for _, d := range all {
			marker := "  "
			if d == selected {
				marker = "* "
			}
			fmt.Println(marker + dealStyle.Render(d))
		}

	case ":use":
		if arg == "" {
			fmt.Println(dimStyle.Render("usage: :use <deal>"))
			break
		}
		if !rt.deals.Select(arg) {
			fmt.Println(errorStyle.Render(fmt.Sprintf("unknown deal %q — :deals to see what's loaded", arg)))
			break
		}
		fmt.Printf("Active deal: %s\n", dealStyle.Render(arg))

	case ":reload":
		if err := rt.deals.Load(ctx); err != nil {
			fmt.Println(errorStyle.Render(deals.LoadFailureMessage))
			break
		}
		deal, _ := rt.deals.Selected()
		fmt.Printf("Loaded %d deal(s). Active: %s\n", len(rt.deals.Deals()), dealStyle.Render(deal))

	case ":new":
		rt.orch.Reset()
		fmt.Println(dimStyle.Render("Ready for a new question."))

	case ":cite":
		if arg == "" {
			fmt.Println(dimStyle.Render("usage: :cite <id>"))
			break
		}
		deal, ok := rt.deals.Selected()
		if !ok {
			fmt.Println(errorStyle.Render("No deal selected."))
			break
		}
		printCitation(rt.citations.Resolve(ctx, deal, arg))

	case ":find":
		if arg == "" {
			fmt.Println(dimStyle.Render("usage: :find <term>"))
			break
		}
		if rt.index == nil {
			fmt.Println(errorStyle.Render("Citation search is unavailable this session."))
			break
		}
		matches, err := rt.index.Search(arg, 10)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		if len(matches) == 0 {
			fmt.Println(dimStyle.Render("Nothing in the clauses fetched so far. :cite citations first."))
			break
		}
		for _, m := range matches {
			fmt.Printf("%s %s\n", citeStyle.Render(m.Citation.ID), dimStyle.Render(m.Citation.Deal))
		}

	case ":search":
		if arg == "" {
			fmt.Println(dimStyle.Render("usage: :search <term>"))
			break
		}
		deal, ok := rt.deals.Selected()
		if !ok {
			fmt.Println(errorStyle.Render("No deal selected."))
			break
		}
		res, err := rt.client.SearchDeal(ctx, deal, arg, 5)
		if err != nil {
			fmt.Println(errorStyle.Render("Search failed. The index may be missing for this deal."))
			break
		}
		for _, r := range res.Results {
			fmt.Printf("%s\n  %s\n", citeStyle.Render(r.ChunkID), dimStyle.Render(r.Preview))
		}

	case ":history":
		printHistory(rt.history.Search(arg), time.Now())

	case ":clear":
		rt.history.Clear()
		fmt.Println(dimStyle.Render("History cleared."))

	default:
		fmt.Println(dimStyle.Render("Unknown command. :help for the list."))
	}
	return false
}
