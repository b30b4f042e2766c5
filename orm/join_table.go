package orm

import "fmt"

// throughJoin is the two-table join that resolves a has-many-through:
//
//	SELECT source.* FROM through
//	JOIN source ON source.sourceKey = through.throughKey
//	WHERE through.ownerKey = ?
type throughJoin struct {
	throughTable string
	sourceTable  string
	sourceKey    string
	throughKey   string
	ownerKey     string
}

// newThroughJoin picks the join keys from the direction of source, the
// relationship declared on the through model. through is the has-many from
// the owner to the through model.
func newThroughJoin(throughTable, sourceTable string, through, source Association) throughJoin {
	j := throughJoin{
		throughTable: throughTable,
		sourceTable:  sourceTable,
		ownerKey:     through.ForeignKey,
	}
	if source.Kind == KindHasMany {
		j.sourceKey = source.ForeignKey
		j.throughKey = source.PrimaryKey
	} else {
		j.sourceKey = source.PrimaryKey
		j.throughKey = source.ForeignKey
	}
	return j
}

func (j throughJoin) key() string {
	return fmt.Sprintf("through|%s|%s|%s|%s|%s", j.throughTable, j.sourceTable, j.sourceKey, j.throughKey, j.ownerKey)
}

func (j throughJoin) build(d Dialect) string {
	qi := d.QuoteIdent
	return fmt.Sprintf(
		"SELECT %s.* FROM %s JOIN %s ON %s.%s = %s.%s WHERE %s.%s = ?",
		qi(j.sourceTable),
		qi(j.throughTable),
		qi(j.sourceTable),
		qi(j.sourceTable), qi(j.sourceKey),
		qi(j.throughTable), qi(j.throughKey),
		qi(j.throughTable), qi(j.ownerKey),
	)
}
