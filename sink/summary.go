package sink

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/use-agent/hustings/models"
)

// Summary describes one finished run.
type Summary struct {
	Variant    models.SchemaVariant
	Output     string
	Report     string // empty when nothing failed
	Discovered int
	Written    int
	Failures   []models.Failure
	Elapsed    time.Duration
}

// Failed returns the number of constituencies left out of the table.
func (s Summary) Failed() int { return len(s.Failures) }

// PrintSummary renders s as a table, followed by one line per failure.
func PrintSummary(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("General election " + s.Variant.String())
	t.AppendHeader(table.Row{"Discovered", "Written", "Failed", "Elapsed", "Output"})
	t.AppendRow(table.Row{s.Discovered, s.Written, s.Failed(), s.Elapsed.Round(time.Millisecond), s.Output})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(s.Failures) == 0 {
		return
	}
	f := table.NewWriter()
	f.SetOutputMirror(w)
	f.AppendHeader(table.Row{"ONS ID", "Constituency", "Code", "Message"})
	for _, fail := range s.Failures {
		f.AppendRow(table.Row{fail.ONSID, fail.Name, fail.Code, fail.Message})
	}
	if s.Report != "" {
		f.AppendFooter(table.Row{"", "", "", "report: " + s.Report})
	}
	f.SetStyle(table.StyleRounded)
	f.Render()
}
