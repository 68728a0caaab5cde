package matchmaking

// RelationRequest is one person's wish for a relation of a given length.
// Requests are ephemeral: they live at most two matchmaking days (the day of
// arrival and one priority day) before being matched or dropped.
type RelationRequest struct {
	PersonID       int
	DurationInDays int
}
