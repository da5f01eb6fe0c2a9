package stabilize

// DefaultMaxHops allows 's' -> 'S' -> '5', the longest chain in DefaultConfusions.
const DefaultMaxHops = 2

// DefaultConfusions lists characters that only differ by font or size and
// the character each one is most often mistaken for.
var DefaultConfusions = map[rune]rune{
	's': 'S',
	'S': '5',
	'5': 'S',
	'o': 'O',
	'Q': 'O',
	'O': '0',
	'0': 'O',
	'l': 'I',
	'I': '1',
	'1': 'I',
	'B': '8',
	'8': 'B',
}

// Alphabet is a set of allowed characters.
type Alphabet map[rune]struct{}

// NewAlphabet builds an alphabet from the runes of chars.
func NewAlphabet(chars string) Alphabet {
	a := make(Alphabet, len(chars))
	for _, r := range chars {
		a[r] = struct{}{}
	}
	return a
}

// DigitsAndSpace is the alphabet numbers are extracted into.
var DigitsAndSpace = NewAlphabet(" 0123456789")

// Contains reports whether r is in the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a[r]
	return ok
}

// Normalizer substitutes confusable characters.
type Normalizer struct {
	Table   map[rune]rune
	MaxHops int
}

// NewNormalizer returns a Normalizer using DefaultConfusions. A maxHops of
// zero or less selects DefaultMaxHops.
func NewNormalizer(maxHops int) *Normalizer {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Normalizer{Table: DefaultConfusions, MaxHops: maxHops}
}

// Normalize returns r unchanged if it is allowed. Otherwise it follows the
// confusion table until it reaches an allowed character, runs out of table
// entries, or has made MaxHops substitutions, and returns where it stopped.
// The result is not guaranteed to be allowed; callers should check.
func (n *Normalizer) Normalize(r rune, allowed Alphabet) rune {
	current := r
	for hops := 0; !allowed.Contains(current) && hops < n.MaxHops; hops++ {
		next, ok := n.Table[current]
		if !ok {
			break
		}
		current = next
	}
	return current
}
