package game

// Outcome is the result code of a position: -1 in progress, 0 tie, 1 first player wins,
// 2 second player wins.
type Outcome int8

const (
	InProgress       Outcome = -1
	Tie              Outcome = 0
	FirstPlayerWins  Outcome = 1
	SecondPlayerWins Outcome = 2
)

// Won returns the outcome in which color wins.
func Won(color Color) Outcome {
	switch color {
	case First:
		return FirstPlayerWins
	case Second:
		return SecondPlayerWins
	default:
		panic("no outcome for an empty color")
	}
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool {
	return o != InProgress
}

// Winner returns the winning color, or Empty for ties and unfinished games.
func (o Outcome) Winner() Color {
	switch o {
	case FirstPlayerWins:
		return First
	case SecondPlayerWins:
		return Second
	default:
		return Empty
	}
}

// Value scores the outcome from color's perspective: +1 win, -1 loss, 0 tie.
func (o Outcome) Value(color Color) int {
	winner := o.Winner()
	switch {
	case winner == Empty:
		return 0
	case winner == color:
		return 1
	default:
		return -1
	}
}

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Tie:
		return "tie"
	case FirstPlayerWins:
		return "first player wins"
	case SecondPlayerWins:
		return "second player wins"
	default:
		return "unknown"
	}
}
