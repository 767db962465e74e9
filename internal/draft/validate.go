package draft

import (
	"fmt"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/filter"
)

// ValidationResult reports whether a format can be drafted from a cube.
type ValidationResult struct {
	OK       bool     `json:"ok"`
	Messages []string `json:"messages"`
}

// Validate checks that every alternative of every slot matches at least one
// card in cards. The pool is never modified, so the answer does not depend on
// any particular draw. A nil compile uses filter.Compile.
func Validate(f *Format, cards []cube.Card, compile CompileFunc) ValidationResult {
	if compile == nil {
		compile = filter.Compile
	}

	messages := f.Check()
	if len(f.Packs) == 0 {
		return ValidationResult{Messages: messages}
	}

	cache := make(map[string]string) // alternative -> warning, "" when satisfiable
	for p, pack := range f.Packs {
		for c, text := range pack.Slots {
			for _, alt := range ParseSlot(text) {
				warning, seen := cache[alt]
				if !seen {
					warning = checkAlternative(alt, cards, compile)
					cache[alt] = warning
				}
				if warning != "" {
					messages = append(messages, fmt.Sprintf("pack %d slot %d: %s", p+1, c+1, warning))
				}
			}
		}
	}

	if messages == nil {
		messages = []string{}
	}
	return ValidationResult{OK: len(messages) == 0, Messages: messages}
}

func checkAlternative(alt string, cards []cube.Card, compile CompileFunc) string {
	if isAny(alt) {
		if len(cards) == 0 {
			return "no cards in pool"
		}
		return ""
	}
	pred, err := compile(alt)
	if err != nil {
		return fmt.Sprintf("invalid filter %s: %v", alt, err)
	}
	for i := range cards {
		if pred.Match(&cards[i]) {
			return ""
		}
	}
	return fmt.Sprintf("no cards matching filter: %s", alt)
}
