package edit

// Kind distinguishes the three edit intents.
type Kind uint8

const (
	// InsertLeft inserts text at an offset, before any InsertRight text
	// anchored at the same offset.
	InsertLeft Kind = iota
	// InsertRight inserts text at an offset, after all InsertLeft text
	// anchored at the same offset.
	InsertRight
	// Remove deletes Length bytes starting at Offset.
	Remove
)

func (k Kind) String() string {
	switch k {
	case InsertLeft:
		return "insert-left"
	case InsertRight:
		return "insert-right"
	case Remove:
		return "remove"
	}
	return "unknown"
}

// Intent is one deferred, positioned text modification. Intents never
// invalidate each other: offsets always refer to the original content, and
// application resolves ordering.
type Intent struct {
	Kind   Kind
	Offset uint32
	Text   string // insert kinds
	Length uint32 // Remove
	seq    int    // insertion order, stabilizes same-offset same-kind intents
}
