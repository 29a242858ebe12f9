package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the configured backend. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cGreeting.Println("hoopstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hoopstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			report.PrintRoster(os.Stdout, a.Players())
		case "games":
			report.PrintGames(os.Stdout, a.Games())
		case "player":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: player <id>")
				continue
			}
			shellPlayer(a, args[0])
		case "game":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: game <id>")
				continue
			}
			shellGame(a, args[0])
		case "record":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: record <game-id> <file.json>")
				continue
			}
			shellRecord(ctx, a, args[0], args[1])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list the roster with averages"},
		{"player <id>", "show a player's history and averages"},
		{"games", "list all games"},
		{"game <id>", "show a game's box score"},
		{"record <game-id> <file.json>", "record a game's stat lines"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellPlayer(a *app, raw string) {
	id, err := parseID("player", raw)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	p, err := a.Player(id)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	avg, _ := a.PlayerAverage(id)
	fmt.Fprintf(os.Stdout, "\nPlayer %d: %s\n\n", p.ID, p.Name)
	report.PrintHistory(os.Stdout, p, gameIndex(a))
	fmt.Fprintln(os.Stdout)
	report.PrintAverages(os.Stdout, avg)
}

func shellGame(a *app, raw string) {
	id, err := parseID("game", raw)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	g, err := a.Game(id)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintGameSummary(os.Stdout, g)
	report.PrintBoxScore(os.Stdout, g, playerNames(a))
}

func shellRecord(ctx context.Context, a *app, rawID, path string) {
	id, err := parseID("game", rawID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	inputs, err := readStatFile(path)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if err := a.RecordGameStats(ctx, id, inputs); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cMuted.Printf("recorded %d line(s) for game %d\n", len(inputs), id)
}
