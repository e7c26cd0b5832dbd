package show

import (
	"strings"
	"unicode/utf8"
)

// symbols maps spelled-out names to the characters they display as.
var symbols = map[string]string{
	"alpha":      "α",
	"beta":       "β",
	"gamma":      "γ",
	"delta":      "δ",
	"epsilon":    "ε",
	"varepsilon": "ϵ",
	"zeta":       "ζ",
	"eta":        "η",
	"theta":      "θ",
	"vartheta":   "ϑ",
	"iota":       "ι",
	"kappa":      "κ",
	"lambda":     "λ",
	"mu":         "μ",
	"nu":         "ν",
	"xi":         "ξ",
	"omicron":    "ο",
	"pi":         "π",
	"rho":        "ρ",
	"sigma":      "σ",
	"tau":        "τ",
	"upsilon":    "υ",
	"phi":        "φ",
	"varphi":     "ϕ",
	"chi":        "χ",
	"psi":        "ψ",
	"omega":      "ω",
	"Gamma":      "Γ",
	"Delta":      "Δ",
	"Theta":      "Θ",
	"Lambda":     "Λ",
	"Xi":         "Ξ",
	"Pi":         "Π",
	"Sigma":      "Σ",
	"Upsilon":    "Υ",
	"Phi":        "Φ",
	"Psi":        "Ψ",
	"Omega":      "Ω",

	"infinity":  "∞",
	"inf":       "∞",
	"nabla":     "∇",
	"partial":   "∂",
	"hbar":      "ℏ",
	"ell":       "ℓ",
	"emptyset":  "∅",
	"aleph":     "ℵ",
	"naturals":  "ℕ",
	"integers":  "ℤ",
	"rationals": "ℚ",
	"reals":     "ℝ",
	"complexes": "ℂ",
}

// symbol formats a symbol name. Names in the symbol table display as their
// characters. A name like x_1 displays with a subscript.
func symbol(name string) *Notation {
	if i := strings.IndexByte(name, '_'); i > 0 && i < len(name)-1 {
		return el(Sub, symbol(name[:i]), subscriptPart(name[i+1:]))
	}
	if s, ok := symbols[name]; ok {
		return mi(s)
	}
	if utf8.RuneCountInString(name) > 1 {
		return upright(name)
	}
	return mi(name)
}

func subscriptPart(s string) *Notation {
	if isDigits(s) {
		return mn(s)
	}
	return symbol(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
