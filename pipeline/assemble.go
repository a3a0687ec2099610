package pipeline

import (
	"github.com/use-agent/hustings/models"
)

// Assemble unions the rows' fields into one table. Columns appear in the
// order first seen across rows, and every row gets a cell for every column,
// null where the row has no such field.
func Assemble(rows []FlatRow) (*Table, error) {
	if len(rows) == 0 {
		return nil, models.NewError(models.ErrCodeEmptyInput, "no constituency rows to assemble", nil)
	}

	t := &Table{Rows: make([]Row, 0, len(rows))}
	seen := make(map[string]struct{})
	for _, r := range rows {
		fields := r.Fields()
		row := make(Row, len(fields))
		for _, f := range fields {
			if _, ok := seen[f.Name]; !ok {
				seen[f.Name] = struct{}{}
				t.Columns = append(t.Columns, f.Name)
			}
			row[f.Name] = f.Value
		}
		t.Rows = append(t.Rows, row)
	}

	for _, row := range t.Rows {
		for _, col := range t.Columns {
			if _, ok := row[col]; !ok {
				row[col] = Null()
			}
		}
	}
	return t, nil
}
