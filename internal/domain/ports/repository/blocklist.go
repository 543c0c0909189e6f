package repository

// BlocklistRepository holds sender ids whose plain messages are dropped.
// The set lives for the process lifetime only.
type BlocklistRepository interface {
	// Block returns false when id was already present.
	Block(id int64) bool
	// Unblock returns false when id was not present.
	Unblock(id int64) bool
	Contains(id int64) bool
	Len() int
	List() []int64
}
