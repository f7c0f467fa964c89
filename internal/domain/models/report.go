package models

// Metric is the fit quality of a model on one table.
type Metric struct {
	AdjR2 float64
	RMSE  float64
}

// Shape is the (rows, columns) size of a named table.
type Shape struct {
	Name string
	Rows int
	Cols int
}

// ShapeOf captures the current size of t.
func ShapeOf(name string, t *Table) Shape {
	rows, cols := t.Shape()
	return Shape{Name: name, Rows: rows, Cols: cols}
}

// Split is a train window followed by a test window cut from the tail of a table.
type Split struct {
	Train   *Table
	Test    *Table
	TrainLo int
	TrainHi int
	TestLo  int
	TestHi  int
}

// AssessmentReport is the {R2, RMSE} x {Train, Test} table.
type AssessmentReport struct {
	Train Metric
	Test  Metric
}

// Rows returns the report as labelled rows: R2 then RMSE, each as [train, test].
func (r AssessmentReport) Rows() []ReportRow {
	return []ReportRow{
		{Label: "R2", Train: r.Train.AdjR2, Test: r.Test.AdjR2},
		{Label: "RMSE", Train: r.Train.RMSE, Test: r.Test.RMSE},
	}
}

type ReportRow struct {
	Label string
	Train float64
	Test  float64
}
