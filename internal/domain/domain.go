package domain

// Card is a single question-answer unit with a selection weight.
// Weight biases how likely the card is picked for review: it is always
// kept in [0.1, 1.0], lowered after correct answers and raised after
// incorrect ones.
type Card struct {
	ID       int64
	Question string
	Answer   string
	Weight   float64
	ThemeID  int64
}

// Theme is a topic grouping for cards. A theme cannot be deleted while
// any card still references it.
type Theme struct {
	ID   int64
	Name string
}

// DailyStat is one calendar day's tally of correct and incorrect answers.
// At most one row exists per distinct date.
type DailyStat struct {
	ID        int64
	Correct   int
	Incorrect int
	Date      string // local calendar day, formatted YYYY-MM-DD
}
