package features

import "SpyReg/internal/domain/models"

// DeltaKind is how a foreign index's daily move is measured.
type DeltaKind int

const (
	// OpenToOpen is today's open minus yesterday's open.
	OpenToOpen DeltaKind = iota
	// Intraday is today's close minus today's open. Used for the Asian and
	// Australian markets, which close before the US opens.
	Intraday
)

// Feature is one foreign index column of the panel.
type Feature struct {
	Name string
	Kind DeltaKind
}

// Panel lists the foreign indices in table column order.
var Panel = []Feature{
	{Name: models.ColSP500, Kind: OpenToOpen},
	{Name: models.ColNasdaq, Kind: OpenToOpen},
	{Name: models.ColDJI, Kind: OpenToOpen},
	{Name: models.ColCAC40, Kind: OpenToOpen},
	{Name: models.ColDAXI, Kind: OpenToOpen},
	{Name: models.ColAORD, Kind: Intraday},
	{Name: models.ColHSI, Kind: Intraday},
	{Name: models.ColNikkei, Kind: Intraday},
}

// TargetSeries is the index whose next-day move is predicted.
const TargetSeries = models.ColSpy

// Columns returns the feature table columns in output order.
func Columns() []string {
	out := []string{models.ColSpy, models.ColSpyLag1}
	for _, f := range Panel {
		out = append(out, f.Name)
	}
	return append(out, models.ColPrice)
}

// Regressors returns the model's explanatory columns.
func Regressors() []string {
	return []string{
		models.ColSpyLag1,
		models.ColSP500,
		models.ColNasdaq,
		models.ColDJI,
		models.ColCAC40,
		models.ColDAXI,
		models.ColAORD,
		models.ColNikkei,
		models.ColHSI,
	}
}

// SeriesNames returns every input series, target first.
func SeriesNames() []string {
	out := []string{TargetSeries}
	for _, f := range Panel {
		out = append(out, f.Name)
	}
	return out
}
