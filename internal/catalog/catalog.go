package catalog

import "fmt"

// Letter is one entry of the Greek alphabet. The catalog is static reference
// data: letters are identified by their 1-based alphabet position and never
// change at runtime.
type Letter struct {
	ID        int    `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Uppercase string `bson:"uppercase" json:"uppercase"`
	Lowercase string `bson:"lowercase" json:"lowercase"`
	Position  int    `bson:"position" json:"position"`
}

var greekAlphabet = []Letter{
	{1, "Alpha", "Α", "α", 1},
	{2, "Beta", "Β", "β", 2},
	{3, "Gamma", "Γ", "γ", 3},
	{4, "Delta", "Δ", "δ", 4},
	{5, "Epsilon", "Ε", "ε", 5},
	{6, "Zeta", "Ζ", "ζ", 6},
	{7, "Eta", "Η", "η", 7},
	{8, "Theta", "Θ", "θ", 8},
	{9, "Iota", "Ι", "ι", 9},
	{10, "Kappa", "Κ", "κ", 10},
	{11, "Lambda", "Λ", "λ", 11},
	{12, "Mu", "Μ", "μ", 12},
	{13, "Nu", "Ν", "ν", 13},
	{14, "Xi", "Ξ", "ξ", 14},
	{15, "Omicron", "Ο", "ο", 15},
	{16, "Pi", "Π", "π", 16},
	{17, "Rho", "Ρ", "ρ", 17},
	{18, "Sigma", "Σ", "σ", 18},
	{19, "Tau", "Τ", "τ", 19},
	{20, "Upsilon", "Υ", "υ", 20},
	{21, "Phi", "Φ", "φ", 21},
	{22, "Chi", "Χ", "χ", 22},
	{23, "Psi", "Ψ", "ψ", 23},
	{24, "Omega", "Ω", "ω", 24},
}

// Catalog provides lookup over a fixed set of letters.
type Catalog struct {
	letters []Letter
	byID    map[int]Letter
	byName  map[string]Letter
}

// New builds a catalog over the given letters. Tests use this with small
// letter sets; production code uses Default.
func New(letters []Letter) *Catalog {
	c := &Catalog{
		letters: letters,
		byID:    make(map[int]Letter, len(letters)),
		byName:  make(map[string]Letter, len(letters)),
	}
	for _, l := range letters {
		c.byID[l.ID] = l
		c.byName[l.Name] = l
	}
	return c
}

// Default returns the full 24-letter Greek alphabet catalog.
func Default() *Catalog {
	return New(greekAlphabet)
}

// Letters returns all letters in alphabet order.
func (c *Catalog) Letters() []Letter {
	out := make([]Letter, len(c.letters))
	copy(out, c.letters)
	return out
}

// Len returns the number of letters in the catalog.
func (c *Catalog) Len() int {
	return len(c.letters)
}

// ByID looks up a letter by its id.
func (c *Catalog) ByID(id int) (Letter, error) {
	l, ok := c.byID[id]
	if !ok {
		return Letter{}, fmt.Errorf("letter %d not in catalog", id)
	}
	return l, nil
}

// ByName looks up a letter by its display name.
func (c *Catalog) ByName(name string) (Letter, error) {
	l, ok := c.byName[name]
	if !ok {
		return Letter{}, fmt.Errorf("letter %q not in catalog", name)
	}
	return l, nil
}
