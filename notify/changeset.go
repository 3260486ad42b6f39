package notify

import (
	"fmt"
)

// ChangeSet describes one coalesced mutation of a collection.
//
// Deletions and Modifications are positions before the change, Insertions
// and ModificationsNew positions after it. ModificationsNew holds the
// positions of Modifications, translated past the deletions and insertions.
type ChangeSet struct {
	Deletions        IndexSet
	Insertions       IndexSet
	Modifications    IndexSet
	ModificationsNew IndexSet
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return c.Deletions.Empty() &&
		c.Insertions.Empty() &&
		c.Modifications.Empty() &&
		c.ModificationsNew.Empty()
}

func (c ChangeSet) String() string {
	return fmt.Sprintf("deletions=%s insertions=%s modifications=%s modifications_new=%s",
		c.Deletions, c.Insertions, c.Modifications, c.ModificationsNew)
}
