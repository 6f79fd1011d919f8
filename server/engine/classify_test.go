package engine

import (
	"math/rand"
	"testing"

	poker "github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"
)

func hand5(t *testing.T, labels ...string) [5]Card {
	t.Helper()
	cs, err := ParseCards(labels)
	require.NoError(t, err)
	require.Len(t, cs, 5)
	return [5]Card(cs)
}

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		want  Category
	}{
		{"royal straight flush", []string{"10H", "JH", "QH", "KH", "AH"}, StraightFlush},
		{"quads", []string{"8H", "8C", "8S", "8D", "3H"}, FourOfAKind},
		{"full house", []string{"9H", "9C", "9S", "4D", "4H"}, FullHouse},
		{"flush", []string{"AH", "10H", "8H", "6H", "4H"}, Flush},
		{"straight", []string{"5H", "6C", "7S", "8D", "9H"}, Straight},
		{"trips", []string{"QH", "QC", "QS", "4D", "2H"}, ThreeOfAKind},
		{"two pair", []string{"KH", "KC", "5S", "5D", "2H"}, TwoPair},
		{"pair of aces", []string{"AH", "AC", "10S", "8D", "6H"}, OnePair},
		{"high card", []string{"2H", "5C", "9S", "JD", "AH"}, HighCard},
		{"wheel is not a straight", []string{"AH", "2C", "3S", "4D", "5H"}, HighCard},
		{"suited wheel is only a flush", []string{"AS", "2S", "3S", "4S", "5S"}, Flush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(hand5(t, tt.cards...)))
		})
	}
}

func TestClassify_PermutationInvariant(t *testing.T) {
	hands := [][5]Card{
		hand5(t, "10H", "JH", "QH", "KH", "AH"),
		hand5(t, "9H", "9C", "9S", "4D", "4H"),
		hand5(t, "KH", "KC", "5S", "5D", "2H"),
		hand5(t, "5H", "6C", "7S", "8D", "9H"),
		hand5(t, "2H", "5C", "9S", "JD", "AH"),
	}
	for _, h := range hands {
		want := Classify(h)
		permute(h[:], 0, func(p []Card) {
			require.Equal(t, want, Classify([5]Card(p)), "permutation %v", Cards(p))
		})
	}
}

func permute(cs []Card, k int, visit func([]Card)) {
	if k == len(cs) {
		visit(cs)
		return
	}
	for i := k; i < len(cs); i++ {
		cs[k], cs[i] = cs[i], cs[k]
		permute(cs, k+1, visit)
		cs[k], cs[i] = cs[i], cs[k]
	}
}

func TestBestOfSeven_PicksBestFive(t *testing.T) {
	cs, err := ParseCards([]string{"AH", "AC", "KS", "KD", "2H", "3C", "4S"})
	require.NoError(t, err)
	require.Equal(t, TwoPair, BestOfSeven([7]Card(cs)))

	cs, err = ParseCards([]string{"2H", "7H", "9H", "JH", "KD", "KH", "KS"})
	require.NoError(t, err)
	require.Equal(t, Flush, BestOfSeven([7]Card(cs)))

	cs, err = ParseCards([]string{"8H", "8C", "8S", "8D", "3H", "3C", "3S"})
	require.NoError(t, err)
	require.Equal(t, FourOfAKind, BestOfSeven([7]Card(cs)))
}

// Category order must agree with the library's exact score wherever the two
// evaluators put hands in different categories. Wheels are skipped: the
// library plays the ace low, Classify does not.
func TestClassify_AgreesWithLibraryOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	deck := FullDeck()

	type scored struct {
		cat   Category
		score int16
	}
	var samples []scored
	for len(samples) < 400 {
		r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		h := [5]Card(deck[:5])
		if isWheel(h) {
			continue
		}
		var ph [5]poker.Card
		for i, c := range h {
			pc, err := toPH(c)
			require.NoError(t, err)
			ph[i] = pc
		}
		samples = append(samples, scored{cat: Classify(h), score: poker.Eval5(&ph)})
	}

	orientation := 0
	for i := range samples {
		for j := range samples {
			a, b := samples[i], samples[j]
			if a.cat <= b.cat || a.score == b.score {
				continue
			}
			sign := 1
			if a.score < b.score {
				sign = -1
			}
			if orientation == 0 {
				orientation = sign
			}
			require.Equal(t, orientation, sign, "%v vs %v", a, b)
		}
	}
	require.NotZero(t, orientation)
}

func isWheel(h [5]Card) bool {
	var seen [MaxRank + 1]bool
	for _, c := range h {
		seen[c.Rank] = true
	}
	return seen[14] && seen[2] && seen[3] && seen[4] && seen[5]
}

func TestDescribe(t *testing.T) {
	cs, err := ParseCards([]string{"AH", "AC", "10S", "8D", "6H", "3C", "2S"})
	require.NoError(t, err)
	desc, err := Describe(cs)
	require.NoError(t, err)
	require.NotEmpty(t, desc)

	_, err = Describe(cs[:2])
	require.Error(t, err)
}
