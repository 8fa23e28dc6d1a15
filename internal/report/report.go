// Package report renders standings, knockout brackets and odds.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// WriteStandings prints the league phase table with the qualification band
// of every position.
func WriteStandings(w io.Writer, standings []league.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pos\tTeam\tCountry\tElo\tPower\tPerformance\tBand")
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f\t%.3f\t%.3f\t%s\n",
			s.Position, s.Name, s.Country, s.Elo, s.Strength, s.Performance, band(s.Position))
	}
	return tw.Flush()
}

func band(pos int) string {
	switch {
	case pos <= league.DirectSlots:
		return "R16"
	case pos < league.EliminatedFrom:
		return "Playoff"
	default:
		return "Out"
	}
}

// WriteKnockout prints every stage's ties and the champion.
func WriteKnockout(w io.Writer, ko *league.KnockoutResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, sr := range ko.Stages {
		fmt.Fprintf(tw, "== %s ==\n", sr.Stage)
		for _, m := range sr.Matches {
			fmt.Fprintf(tw, "(%d) %s\tvs\t(%d) %s\t->\t%s\n",
				m.A.Position, m.A.Name, m.B.Position, m.B.Name, m.Winner.Name)
		}
	}
	fmt.Fprintf(tw, "Champion: %s\n", ko.Champion.Name)
	return tw.Flush()
}

// WritePredictions prints one probability column per prediction list. All
// lists must cover the same teams; rows follow the first list's order.
func WritePredictions(w io.Writer, headers []string, lists ...[]league.Prediction) error {
	if len(headers) != len(lists) {
		return fmt.Errorf("report: %d headers for %d columns", len(headers), len(lists))
	}
	if len(lists) == 0 {
		return nil
	}

	cols := make([]map[string]float64, len(lists))
	for i, l := range lists {
		cols[i] = make(map[string]float64, len(l))
		for _, p := range l {
			cols[i][p.Team.Name] = p.Probability
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "Team\t")
	for _, h := range headers {
		fmt.Fprintf(tw, "%s\t", h)
	}
	fmt.Fprintln(tw)
	for _, p := range lists[0] {
		fmt.Fprintf(tw, "%s\t", p.Team.Name)
		for _, c := range cols {
			fmt.Fprintf(tw, "%.2f%%\t", c[p.Team.Name])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
