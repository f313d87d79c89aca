// pkg/model/anomaly.go
package model

import "strconv"

// AnomalyReason is the flag reason attached to every anomaly record
const AnomalyReason = "z-score exceeds threshold"

// AnomalyRecord flags one numeric cell as an outlier.
// RowIndex is the row id assigned when the dataset was decoded.
type AnomalyRecord struct {
	RowIndex   int     `json:"row_index"`
	ColumnName string  `json:"column_name"`
	Value      string  `json:"value"`
	ZScore     float64 `json:"z_score"`
	FlagReason string  `json:"flag_reason"`
}

// AnomalyReport is the union of records produced by one detection pass
type AnomalyReport struct {
	Records []AnomalyRecord `json:"records"`
}

// Add appends a record
func (r *AnomalyReport) Add(rec AnomalyRecord) {
	r.Records = append(r.Records, rec)
}

// Len returns the number of records, counting a row once per flagged column
func (r AnomalyReport) Len() int {
	return len(r.Records)
}

// RowsWithAnomalies counts distinct flagged row indices
func (r AnomalyReport) RowsWithAnomalies() int {
	seen := make(map[int]struct{}, len(r.Records))
	for _, rec := range r.Records {
		seen[rec.RowIndex] = struct{}{}
	}
	return len(seen)
}

// Dataset lays the records out as a table with one row per record
func (r AnomalyReport) Dataset() *Dataset {
	cols := []*Column{
		NewColumn("row_index", KindNumeric),
		NewColumn("column_name", KindText),
		NewColumn("value", KindText),
		NewColumn("z_score", KindNumeric),
		NewColumn("flag_reason", KindText),
	}
	for _, rec := range r.Records {
		cols[0].Cells = append(cols[0].Cells, Value(strconv.Itoa(rec.RowIndex)))
		cols[1].Cells = append(cols[1].Cells, Value(rec.ColumnName))
		cols[2].Cells = append(cols[2].Cells, Value(rec.Value))
		cols[3].Cells = append(cols[3].Cells, Value(strconv.FormatFloat(rec.ZScore, 'f', 4, 64)))
		cols[4].Cells = append(cols[4].Cells, Value(rec.FlagReason))
	}
	ds, _ := NewDataset(cols...)
	return ds
}
