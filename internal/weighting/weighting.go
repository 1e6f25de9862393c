package weighting

import "math/rand"

// Bounds for a card's selection weight. The floor means a card is never
// fully removed from rotation, no matter how often it is answered correctly.
const (
	Min = 0.1
	Max = 1.0
)

// DefaultWeight is assigned to newly created cards.
const DefaultWeight = 0.5

const (
	decayFactor  = 0.9 // applied on a correct answer
	growthFactor = 1.1 // applied on an incorrect answer
)

// Next returns the weight a card should have after an answer: a correct
// answer decays the weight toward the floor, an incorrect answer grows it
// toward the ceiling. The result is clamped into [Min, Max] after the
// multiplication, so repeated answers in either direction saturate instead
// of drifting without bound.
func Next(current float64, correct bool) float64 {
	next := current * growthFactor
	if correct {
		next = current * decayFactor
	}
	return Clamp(next)
}

// Clamp forces a weight into the [Min, Max] interval.
func Clamp(w float64) float64 {
	if w < Min {
		return Min
	}
	if w > Max {
		return Max
	}
	return w
}

// Pick selects an index into weights at random, with probability
// proportional to each weight. It returns -1 when weights is empty.
// Non-positive weights are treated as the floor so every card keeps a
// chance of being shown.
func Pick(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < Min {
			w = Min
		}
		total += w
	}

	target := rng.Float64() * total
	for i, w := range weights {
		if w < Min {
			w = Min
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	// Floating point accumulation can leave a sliver; the last card takes it.
	return len(weights) - 1
}
