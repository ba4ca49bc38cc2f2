package domain

// Table is a chart rendered to text cells, ready for any flat exporter
type Table struct {
	Key     string
	Headers []string
	Records [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Records)
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Records))
	for i, rec := range t.Records {
		if idx < len(rec) {
			values[i] = rec[idx]
		}
	}
	return values, true
}
