package engine

import "sort"

// Category is a coarse hand class. Hands in the same category compare equal:
// there is no kicker or rank tie breaking.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"high card", "one pair", "two pair", "three of a kind", "straight",
	"flush", "full house", "four of a kind", "straight flush",
}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Classify scores exactly five distinct cards. The ace only plays high, so
// A-2-3-4-5 is not a straight.
func Classify(hand [5]Card) Category {
	var counts [MaxRank + 1]int
	flush := true
	for _, c := range hand {
		counts[c.Rank]++
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}
	straight := isStraight(hand)
	shape := rankShape(&counts)

	switch {
	case straight && flush:
		return StraightFlush
	case shape.is(4, 1):
		return FourOfAKind
	case shape.is(3, 2):
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case shape.is(3, 1, 1):
		return ThreeOfAKind
	case shape.is(2, 2, 1):
		return TwoPair
	case shape.is(2, 1, 1, 1):
		return OnePair
	}
	return HighCard
}

// BestOfSeven is the best category over the 21 five-card subsets.
func BestOfSeven(cards [7]Card) Category {
	best := HighCard
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						if cat := Classify([5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}); cat > best {
							best = cat
						}
					}
				}
			}
		}
	}
	return best
}

func isStraight(hand [5]Card) bool {
	ranks := [5]int{}
	for i, c := range hand {
		ranks[i] = c.Rank
	}
	sort.Ints(ranks[:])
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}

// shape holds rank multiplicities sorted descending, e.g. [3 2] for a full house.
type shape []int

func rankShape(counts *[MaxRank + 1]int) shape {
	s := make(shape, 0, 5)
	for _, n := range counts {
		if n > 0 {
			s = append(s, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
	return s
}

func (s shape) is(want ...int) bool {
	if len(s) != len(want) {
		return false
	}
	for i := range s {
		if s[i] != want[i] {
			return false
		}
	}
	return true
}
