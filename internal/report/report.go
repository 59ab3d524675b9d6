package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-et-stats/internal/model"
)

var (
	cWin   = color.New(color.FgGreen, color.Bold)
	cLoss  = color.New(color.Faint)
	cWarn  = color.New(color.FgYellow)
	cTeamA = color.New(color.FgRed)
	cTeamB = color.New(color.FgBlue)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Clock formats a duration as m:ss, the way the game shows round times.
func Clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}

func teamLabel(id model.TeamID) string {
	switch id {
	case model.TeamA:
		return cTeamA.Sprint("A")
	case model.TeamB:
		return cTeamB.Sprint("B")
	}
	return "—"
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// PrintSessionSummary prints a one-line header for a session.
func PrintSessionSummary(w io.Writer, s model.SessionSummary) {
	score := fmt.Sprintf("Team A %d – %d Team B", s.TeamAPoints, s.TeamBPoints)
	roster := s.RosterStatus
	if roster != "resolved" {
		roster = cWarn.Sprint(roster)
	}
	fmt.Fprintf(w, "\nSession: %s  |  %s → %s  |  Maps: %d  |  Players: %d  |  %s  |  Rosters: %s\n\n",
		s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.EndedAt.Format("15:04"),
		s.Maps, s.Players, score, roster)
}

// PrintSessionList prints one row per stored session.
func PrintSessionList(w io.Writer, sessions []model.SessionSummary, now time.Time) {
	table := newTable(w)
	table.Header("SESSION", "STARTED", "FILES", "MAPS", "PLAYERS", "SCORE", "ROSTERS")
	for _, s := range sessions {
		roster := "ok"
		if s.RosterStatus != "resolved" {
			roster = cWarn.Sprint("ambiguous")
		}
		table.Append(
			s.ID,
			humanize.RelTime(s.StartedAt, now, "ago", "from now"),
			strconv.Itoa(s.Files),
			strconv.Itoa(s.Maps),
			strconv.Itoa(s.Players),
			fmt.Sprintf("%d-%d", s.TeamAPoints, s.TeamBPoints),
			roster,
		)
	}
	table.Render()
}

// PrintMapScores prints the stopwatch result of every map of a session.
func PrintMapScores(w io.Writer, maps []model.StoredMap) {
	table := newTable(w)
	table.Header("MAP", "PLAYED", "R1 ATT", "R1 TIME", "R2 TIME", "RESULT", "A", "B")
	for _, m := range maps {
		r1 := Clock(m.Score.Round1.Elapsed)
		if m.Score.Round1.Fullhold() {
			r1 = "held " + Clock(m.Score.Round1.TimeLimit)
		}
		r2 := Clock(m.Score.Round2.Elapsed)
		if m.Score.Round2.Fullhold() {
			r2 = "held " + Clock(m.Score.Round2.TimeLimit)
		}

		a, b := "—", "—"
		if m.Attributed {
			a, b = points(m.TeamScore.TeamA, m.TeamScore.TeamB), points(m.TeamScore.TeamB, m.TeamScore.TeamA)
		}
		table.Append(
			m.MapName,
			m.PlayedAt.Format("15:04"),
			teamLabel(m.Round1Team)+" "+m.Score.Round1Attacker.String(),
			r1,
			r2,
			m.Score.Outcome.String(),
			a,
			b,
		)
	}
	table.Render()
}

func points(own, other int) string {
	s := strconv.Itoa(own)
	switch {
	case own > other:
		return cWin.Sprint(s)
	case own < other:
		return cLoss.Sprint(s)
	}
	return s
}

// PrintRoster prints both rosters and any players left unresolved.
func PrintRoster(w io.Writer, r *model.SessionRoster) {
	names := func(entries []model.RosterEntry) string {
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Name != "" {
				parts = append(parts, e.Name)
			} else {
				parts = append(parts, e.GUID)
			}
		}
		return strings.Join(parts, ", ")
	}
	fmt.Fprintf(w, "Team %s: %s\n", teamLabel(model.TeamA), names(r.TeamA))
	fmt.Fprintf(w, "Team %s: %s\n", teamLabel(model.TeamB), names(r.TeamB))
	if len(r.Unresolved) > 0 {
		parts := make([]string, 0, len(r.Unresolved))
		for _, u := range r.Unresolved {
			parts = append(parts, fmt.Sprintf("%s (%d rounds)", u.GUID, u.Rounds))
		}
		fmt.Fprintf(w, "%s %s\n", cWarn.Sprint("Unresolved:"), strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

// PrintPlayerTable prints per-player session totals.
// If focus is non-empty, that GUID's row is marked with ">".
func PrintPlayerTable(w io.Writer, players []model.PlayerSessionStats, focus string) {
	table := newTable(w)
	table.Header(" ", "NAME", "TEAM", "RND", "K", "D", "K/D", "HS%", "ACC%", "DMG", "DPM",
		"GIBS", "REV", "OBJ", "DYN", "XP")

	for _, p := range players {
		marker := " "
		if focus != "" && p.GUID == focus {
			marker = ">"
		}
		name := p.Name
		if p.ClampedRounds > 0 {
			name += cWarn.Sprint("*")
		}
		table.Append(
			marker,
			name,
			teamLabel(p.Team),
			strconv.Itoa(p.Rounds),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%.2f", p.KD()),
			fmt.Sprintf("%.0f%%", p.HSRate()),
			fmt.Sprintf("%.1f", p.Accuracy()),
			humanize.Comma(int64(p.DamageGiven)),
			fmt.Sprintf("%.0f", p.DPM()),
			strconv.Itoa(p.Gibs),
			strconv.Itoa(p.RevivesGiven),
			strconv.Itoa(p.Objectives),
			strconv.Itoa(p.Dynamites),
			humanize.Comma(int64(p.XP)),
		)
	}
	table.Render()
}

// PrintRoundTable prints the player rows of one stored round file.
func PrintRoundTable(w io.Writer, rounds []model.StoredPlayerRound) {
	table := newTable(w)
	table.Header("NAME", "SIDE", "K", "D", "HS", "DMG", "DMG_RCV", "GIBS", "REV", "MIN", "DPM", "CLAMPED")

	for i := range rounds {
		r := &rounds[i].Record
		e := &r.Extended
		dpm := 0.0
		if e.TimePlayedMinutes > 0 {
			dpm = float64(e.DamageGiven) / e.TimePlayedMinutes
		}
		clamped := ""
		if rounds[i].Clamped {
			clamped = cWarn.Sprint(strings.Join(rounds[i].ClampedFields, " "))
		}
		table.Append(
			r.Name,
			r.Side.String(),
			strconv.Itoa(r.Kills()),
			strconv.Itoa(r.Deaths()),
			strconv.Itoa(r.Headshots()),
			strconv.Itoa(e.DamageGiven),
			strconv.Itoa(e.DamageReceived),
			strconv.Itoa(e.Gibs),
			strconv.Itoa(e.RevivesGiven),
			fmt.Sprintf("%.1f", e.TimePlayedMinutes),
			fmt.Sprintf("%.0f", dpm),
			clamped,
		)
	}
	table.Render()
}

// PrintWeaponTable prints a per-weapon breakdown. names maps GUID to player
// name. If focus is non-empty, only that GUID's rows are shown.
func PrintWeaponTable(w io.Writer, weapons map[string][]model.WeaponStat, names map[string]string, focus string) {
	guids := make([]string, 0, len(weapons))
	for g := range weapons {
		if focus == "" || g == focus {
			guids = append(guids, g)
		}
	}
	sort.Strings(guids)

	table := newTable(w)
	table.Header("PLAYER", "WEAPON", "K", "D", "HS", "HITS", "SHOTS", "ACC%")
	for _, g := range guids {
		name := names[g]
		if name == "" {
			name = g
		}
		for _, ws := range weapons[g] {
			table.Append(
				name,
				ws.Weapon.String(),
				strconv.Itoa(ws.Kills),
				strconv.Itoa(ws.Deaths),
				strconv.Itoa(ws.Headshots),
				strconv.Itoa(ws.Hits),
				strconv.Itoa(ws.Shots),
				fmt.Sprintf("%.1f", ws.Accuracy()),
			)
		}
	}
	table.Render()
}

// PrintPlayerHistory prints every isolated round of one player.
func PrintPlayerHistory(w io.Writer, rows []model.PlayerHistoryRow) {
	table := newTable(w)
	table.Header("SESSION", "MAP", "RND", "SIDE", "TEAM", "K", "D", "HS", "DMG", "MIN")
	for _, h := range rows {
		table.Append(
			h.SessionID,
			h.MapName,
			strconv.Itoa(h.Round),
			h.Side.String(),
			teamLabel(h.Team),
			strconv.Itoa(h.Kills),
			strconv.Itoa(h.Deaths),
			strconv.Itoa(h.Headshots),
			strconv.Itoa(h.Damage),
			fmt.Sprintf("%.1f", h.Minutes),
		)
	}
	table.Render()
}

// PrintPlayerTotals prints stats summed across sessions.
func PrintPlayerTotals(w io.Writer, totals []model.PlayerTotals) {
	table := newTable(w)
	table.Header("NAME", "SESSIONS", "RND", "K", "D", "K/D", "DMG", "DPM")
	for _, p := range totals {
		table.Append(
			p.Name,
			strconv.Itoa(p.Sessions),
			strconv.Itoa(p.Rounds),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%.2f", p.KD()),
			humanize.Comma(int64(p.DamageGiven)),
			fmt.Sprintf("%.0f", p.DPM()),
		)
	}
	table.Render()
}

// PrintOverview prints database totals. size is the database file size in
// bytes, or 0 when unknown.
func PrintOverview(w io.Writer, o model.Overview, size int64) {
	fmt.Fprintf(w, "Sessions:     %s\n", humanize.Comma(int64(o.Sessions)))
	fmt.Fprintf(w, "Round files:  %s\n", humanize.Comma(int64(o.Files)))
	fmt.Fprintf(w, "Scored maps:  %s\n", humanize.Comma(int64(o.Maps)))
	fmt.Fprintf(w, "Players:      %s\n", humanize.Comma(int64(o.Players)))
	fmt.Fprintf(w, "Player rows:  %s\n", humanize.Comma(int64(o.Rows)))
	if !o.First.IsZero() {
		fmt.Fprintf(w, "Range:        %s → %s\n", o.First.Format("2006-01-02"), o.Last.Format("2006-01-02"))
	}
	if size > 0 {
		fmt.Fprintf(w, "Size:         %s\n", humanize.Bytes(uint64(size))) //nolint:gosec
	}
}

// PrintRoundFile prints what was decoded from one stats file.
func PrintRoundFile(w io.Writer, f *model.RoundFile) {
	h := f.Header
	fmt.Fprintf(w, "\nFile: %s  |  Map: %s  |  Round: %d  |  Attacker: %s  |  Winner: %s  |  Time: %s / %s  |  Hash: %s\n",
		f.Info.Name, h.MapName, h.Round, h.AttackerSide(), h.WinnerSide,
		Clock(h.ActualTime), Clock(h.TimeLimit), shortHash(f.Hash))
	for _, le := range f.LineErrors {
		fmt.Fprintf(w, "%s %v\n", cWarn.Sprint("rejected"), le)
	}
	fmt.Fprintln(w)
}

// PrintQueryResult prints the result of an ad-hoc SQL query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		table.Append(row...)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// PrintTrendTable prints one player's per-session totals in chronological order.
func PrintTrendTable(w io.Writer, sessions []model.PlayerSessionStats) {
	table := newTable(w)
	table.Header("SESSION", "NAME", "TEAM", "RND", "K", "D", "K/D", "HS%", "DMG", "DPM")
	for _, p := range sessions {
		table.Append(
			p.SessionID,
			p.Name,
			teamLabel(p.Team),
			strconv.Itoa(p.Rounds),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%.2f", p.KD()),
			fmt.Sprintf("%.0f%%", p.HSRate()),
			humanize.Comma(int64(p.DamageGiven)),
			fmt.Sprintf("%.0f", p.DPM()),
		)
	}
	table.Render()
}
