package catalog

// confusablePairs maps a letter name to the names of letters that are easy to
// mix up with it, either by shape or by sound. Used at higher difficulty
// levels to draw distractors that actually challenge the learner.
var confusablePairs = map[string][]string{
	"Rho":     {"Pi", "Beta"},
	"Pi":      {"Rho", "Gamma", "Tau"},
	"Nu":      {"Upsilon", "Psi"},
	"Upsilon": {"Nu", "Psi"},
	"Omicron": {"Omega", "Theta"},
	"Omega":   {"Omicron", "Theta"},
	"Epsilon": {"Eta", "Sigma"},
	"Eta":     {"Epsilon", "Nu"},
	"Kappa":   {"Chi"},
	"Chi":     {"Kappa", "Psi"},
	"Beta":    {"Rho"},
	"Gamma":   {"Pi", "Tau"},
	"Tau":     {"Gamma", "Pi"},
	"Sigma":   {"Epsilon", "Xi"},
	"Xi":      {"Sigma", "Zeta"},
	"Zeta":    {"Xi"},
	"Psi":     {"Chi", "Upsilon"},
	"Phi":     {"Theta"},
	"Theta":   {"Phi", "Omicron", "Omega"},
	"Alpha":   {"Delta", "Lambda"},
	"Delta":   {"Alpha", "Lambda"},
	"Lambda":  {"Alpha", "Delta"},
	"Iota":    {"Tau"},
	"Mu":      {},
}

// Confusables returns the letters confusable with the given one, restricted
// to letters actually present in this catalog.
func (c *Catalog) Confusables(target Letter) []Letter {
	names := confusablePairs[target.Name]
	out := make([]Letter, 0, len(names))
	for _, name := range names {
		if l, ok := c.byName[name]; ok && l.ID != target.ID {
			out = append(out, l)
		}
	}
	return out
}
