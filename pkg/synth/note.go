package synth

// Gate is the held state of a key.
type Gate uint8

const (
	Closed Gate = iota
	Open
)

func (g Gate) String() string {
	if g == Open {
		return "OPEN"
	}
	return "CLOSED"
}

// Note is the single tracked key. Monophonic, last note wins.
type Note struct {
	Gate     Gate
	Number   uint8
	Velocity uint8
}
