package console

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"SpyReg/internal/domain/models"
	"SpyReg/internal/services/analytics"
)

// Printer renders pipeline results as aligned plain-text tables.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (p *Printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
}

// Shapes prints (rows, columns) for each table.
func (p *Printer) Shapes(shapes ...models.Shape) error {
	w := p.table()
	for _, s := range shapes {
		fmt.Fprintf(w, "%s\t(%d, %d)\n", s.Name, s.Rows, s.Cols)
	}
	return w.Flush()
}

// Correlations prints each column's correlation with the target.
func (p *Printer) Correlations(target string, cs []analytics.Correlation) error {
	fmt.Fprintf(p.w, "\ncorrelation with %s\n", target)
	w := p.table()
	for _, c := range cs {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, num(c.R, 6))
	}
	return w.Flush()
}

// Summary prints the fitted coefficients and fit statistics.
func (p *Printer) Summary(m *models.Model) error {
	s := m.Summary
	fmt.Fprintf(p.w, "\nOLS regression: %s\n", m.Target)
	w := p.table()
	fmt.Fprintf(w, "observations:\t%d\tR-squared:\t%s\n", s.N, num(s.RSquared, 4))
	fmt.Fprintf(w, "df model:\t%d\tadj. R-squared:\t%s\n", s.DFModel, num(s.AdjRSquared, 4))
	fmt.Fprintf(w, "df resid:\t%d\tF-statistic:\t%s\n", s.DFResid, num(s.FStat, 4))
	fmt.Fprintf(w, "resid std err:\t%s\tprob (F):\t%s\n", num(s.ResidStdErr, 4), num(s.FPValue, 4))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(p.w)
	w = p.table()
	fmt.Fprintln(w, "\tcoef\tstd err\tt\tP>|t|")
	params := m.Params()
	for j, name := range m.ParamNames() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name,
			num(params[j], 4), num(at(s.StdErr, j), 4), num(at(s.TStat, j), 3), num(at(s.PValue, j), 3))
	}
	return w.Flush()
}

// Assessment prints the R2/RMSE table for Train and Test.
func (p *Printer) Assessment(r *models.AssessmentReport) error {
	fmt.Fprintln(p.w)
	w := p.table()
	fmt.Fprintln(w, "\tTrain\tTest")
	for _, row := range r.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Label, num(row.Train, 6), num(row.Test, 6))
	}
	return w.Flush()
}

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return math.NaN()
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.*f", prec, v)
}
