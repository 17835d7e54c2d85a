package domain

// TableColumn identifies one lookup column of the attribute table: the attribute whose
// score selects the row, and the bonus that the column provides.
type TableColumn struct {
	Attribute string
	Bonus     string
}

// AttributeTable maps attribute scores to bonuses, one column per (attribute, bonus) pair.
type AttributeTable struct {
	// Columns lists the columns in file order.
	Columns []TableColumn
	// Rows holds, per column, the bonus value for each attribute score.
	Rows map[TableColumn]map[int]any
}

// Column returns the score-to-bonus mapping for col.
func (t *AttributeTable) Column(col TableColumn) map[int]any {
	return t.Rows[col]
}
