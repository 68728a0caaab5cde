package sim

// Relation joins two persons from its start day until its end day. The end
// day is fixed at creation by the matchmaker; a partner's death terminates
// the relation early without rewriting it (the end-relation event simply
// fires ahead of schedule).
type Relation struct {
	ID        int
	Person1ID int
	Person2ID int
	TimeStart int
	TimeEnd   int
}
