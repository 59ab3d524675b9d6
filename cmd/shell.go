package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
	"github.com/pable/go-et-stats/internal/storage"
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
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	cGreeting.Println("etstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("etstats")
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
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <session-prefix> [--player <guid>]")
				continue
			}
			var focus string
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--player" {
					focus = args[i+1]
				}
			}
			shellShow(db, args[0], focus)
		case "trend":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: trend <guid>")
				continue
			}
			shellTrend(db, args[0])
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			shellSQL(db, strings.Join(args, " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored sessions"},
		{"show <session-prefix>", "show a session's rosters, maps and players"},
		{"show <session-prefix> --player <guid>", "same, highlighting one player"},
		{"trend <guid>", "per-session trend for one player"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-40s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	sessions, err := db.ListSessions()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		cMuted.Println("No sessions stored yet.")
		return
	}
	report.PrintSessionList(os.Stdout, sessions, time.Now())
}

func shellShow(db *storage.DB, prefix, focus string) {
	s, err := db.GetSessionByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if s == nil {
		cWarn.Fprintf(os.Stderr, "no session found with prefix %q\n", prefix)
		return
	}
	if err := showSession(db, s.ID, focus); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellTrend(db *storage.DB, guid string) {
	sessions, err := db.GetPlayerSessions(guid)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		cMuted.Printf("no sessions for %s\n", guid)
		return
	}
	report.PrintTrendTable(os.Stdout, sessions)
}

func shellSQL(db *storage.DB, query string) {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
}
