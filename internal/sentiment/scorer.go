package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Scorer assigns a polarity-lexicon compound score in [-1, 1] to a piece of
// headline text. Negation within the three preceding tokens flips a word's
// polarity.
type Scorer struct {
	positive map[string]bool
	negative map[string]bool
	negators map[string]bool
}

// normalization constant: compound = net / sqrt(net^2 + alpha)
const normAlpha = 15.0

// NewScorer creates a scorer with the built-in market lexicon.
func NewScorer() *Scorer {
	return &Scorer{
		positive: loadPositiveWords(),
		negative: loadNegativeWords(),
		negators: loadNegationWords(),
	}
}

// Compound scores one text. Empty or lexicon-free text scores 0.
func (s *Scorer) Compound(text string) float64 {
	words := tokenize(strings.ToLower(text))
	net := 0.0
	for i, w := range words {
		var valence float64
		switch {
		case s.positive[w]:
			valence = 1.0
		case s.negative[w]:
			valence = -1.0
		default:
			continue
		}
		if s.negatedAt(words, i) {
			valence = -valence
		}
		net += valence
	}
	if net == 0 {
		return 0
	}
	return net / math.Sqrt(net*net+normAlpha)
}

// Mean returns the arithmetic mean of per-text compound scores, 0 for an
// empty input.
func (s *Scorer) Mean(texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range texts {
		sum += s.Compound(t)
	}
	return sum / float64(len(texts))
}

func (s *Scorer) negatedAt(words []string, i int) bool {
	lo := i - 3
	if lo < 0 {
		lo = 0
	}
	for j := lo; j < i; j++ {
		if s.negators[words[j]] {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	var words []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// Market-flavored polarity word lists.

func loadPositiveWords() map[string]bool {
	words := []string{
		"adoption", "advance", "advances", "beat", "beats", "boom", "breakout",
		"bullish", "climb", "climbs", "confidence", "gain", "gains", "good",
		"great", "growth", "high", "highs", "jump", "jumps", "milestone",
		"optimism", "optimistic", "outperform", "positive", "profit", "profits",
		"rally", "rallies", "rebound", "record", "recover", "recovery", "rise",
		"rises", "soar", "soars", "strong", "success", "successful", "support",
		"surge", "surges", "upbeat", "upgrade", "win", "wins",
	}
	return toSet(words)
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"attack", "ban", "bans", "bearish", "breach", "collapse", "collapses",
		"concern", "concerns", "crackdown", "crash", "crashes", "crisis",
		"decline", "declines", "dip", "dips", "down", "downgrade", "drop",
		"drops", "dump", "exploit", "fail", "fails", "failure", "fall", "falls",
		"fear", "fears", "fine", "fined", "fraud", "hack", "hacked", "lawsuit",
		"liquidation", "liquidations", "loss", "losses", "low", "lows",
		"negative", "panic", "plunge", "plunges", "poor", "probe", "risk",
		"risks", "scam", "selloff", "sink", "sinks", "slump", "slumps", "theft",
		"tumble", "tumbles", "uncertain", "uncertainty", "volatile",
		"volatility", "warn", "warning", "warns", "weak", "weakness",
	}
	return toSet(words)
}

func loadNegationWords() map[string]bool {
	words := []string{
		"ain't", "aren't", "can't", "cannot", "despite", "don't", "doesn't",
		"isn't", "never", "no", "none", "not", "nothing", "wasn't", "without",
		"won't",
	}
	return toSet(words)
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
