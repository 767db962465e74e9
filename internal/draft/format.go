// Package draft turns a cube and a draft format into per-seat packs.
//
// Generation is single-threaded per run: one Pool and one Source are threaded
// through every slot, and each removal must be visible to the next draw.
// Independent runs share nothing and may execute concurrently.
package draft

import (
	"errors"
	"fmt"
	"strings"
)

// Step actions a client walks through once a pack is populated.
const (
	ActionPick        = "pick"
	ActionPass        = "pass"
	ActionTrash       = "trash"
	ActionPickRandom  = "pickrandom"
	ActionTrashRandom = "trashrandom"
)

var (
	// ErrNoPacks is returned for a format without packs.
	ErrNoPacks = errors.New("format has no packs")

	// ErrNoSeats is returned when a draft would have no seats.
	ErrNoSeats = errors.New("draft needs at least one seat")
)

// Step is one UI-visible action within a pack.
type Step struct {
	Action string `json:"action" yaml:"action"`
	Amount int    `json:"amount" yaml:"amount"`
}

// Pack is an ordered group of slots handed to a seat as one unit.
type Pack struct {
	// Slots hold comma-separated alternative filters; "" and "*" mean any card.
	Slots []string `json:"slots" yaml:"slots"`

	// Steps is optional; DefaultSteps(len(Slots)) is used when empty.
	Steps []Step `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Format is a declarative description of a draft's packs and slots.
type Format struct {
	Title           string `json:"title" yaml:"title"`
	Packs           []Pack `json:"packs" yaml:"packs"`
	AllowDuplicates bool   `json:"multiples" yaml:"multiples"`
	DefaultSeats    int    `json:"default_seats,omitempty" yaml:"default_seats,omitempty"`
	Markdown        string `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// Clone returns a deep copy of f; the result shares no slices with f.
func (f *Format) Clone() Format {
	out := *f
	if f.Packs == nil {
		return out
	}
	out.Packs = make([]Pack, len(f.Packs))
	for i, pack := range f.Packs {
		out.Packs[i] = Pack{
			Slots: append([]string(nil), pack.Slots...),
			Steps: append([]Step(nil), pack.Steps...),
		}
	}
	return out
}

// DefaultFormat builds the standard format: packs of unconstrained slots.
func DefaultFormat(packs, packSize int) Format {
	f := Format{
		Title:        "Standard Draft",
		Packs:        make([]Pack, packs),
		DefaultSeats: 8,
	}
	for i := range f.Packs {
		slots := make([]string, packSize)
		for j := range slots {
			slots[j] = "*"
		}
		f.Packs[i] = Pack{Slots: slots}
	}
	return f
}

// DefaultSteps alternates pick and pass for n cards, without the final pass.
func DefaultSteps(n int) []Step {
	if n <= 0 {
		return nil
	}
	steps := make([]Step, 0, 2*n-1)
	for i := 0; i < n; i++ {
		steps = append(steps, Step{Action: ActionPick, Amount: 1})
		if i < n-1 {
			steps = append(steps, Step{Action: ActionPass, Amount: 1})
		}
	}
	return steps
}

// StepsFor returns the configured steps of pack p, or the default sequence.
func (f *Format) StepsFor(p int) []Step {
	pack := f.Packs[p]
	if len(pack.Steps) > 0 {
		out := make([]Step, len(pack.Steps))
		copy(out, pack.Steps)
		return out
	}
	return DefaultSteps(len(pack.Slots))
}

// CardsPerSeat is the sum of slot counts over all packs.
func (f *Format) CardsPerSeat() int {
	n := 0
	for _, pack := range f.Packs {
		n += len(pack.Slots)
	}
	return n
}

// PackOffsets returns, for each pack, the number of slots in the packs before it.
func (f *Format) PackOffsets() []int {
	offsets := make([]int, len(f.Packs))
	sum := 0
	for i, pack := range f.Packs {
		offsets[i] = sum
		sum += len(pack.Slots)
	}
	return offsets
}

// GlobalIndex is the position of (seat, pack, slot) in the flat card array:
// seat*cardsPerSeat + sum of earlier pack sizes + slot.
// Stored drafts depend on this seat-major, pack-major, slot-minor layout.
func GlobalIndex(cardsPerSeat int, packOffsets []int, seat, pack, slot int) int {
	return seat*cardsPerSeat + packOffsets[pack] + slot
}

// Slot is the parsed list of alternative filters for one slot.
type Slot []string

// ParseSlot splits slot text on commas that are not inside double quotes.
// Empty text yields the single alternative "*".
func ParseSlot(text string) Slot {
	var alts Slot
	var sb strings.Builder
	inQuote := false
	for _, r := range text {
		switch {
		case r == '"':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == ',' && !inQuote:
			alts = append(alts, strings.TrimSpace(sb.String()))
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	alts = append(alts, strings.TrimSpace(sb.String()))

	out := alts[:0]
	for _, alt := range alts {
		if alt != "" {
			out = append(out, alt)
		}
	}
	if len(out) == 0 {
		return Slot{"*"}
	}
	return out
}

// Unfiltered reports whether every alternative accepts any card.
func (s Slot) Unfiltered() bool {
	for _, alt := range s {
		if !isAny(alt) {
			return false
		}
	}
	return true
}

func isAny(alt string) bool {
	alt = strings.TrimSpace(alt)
	return alt == "" || alt == "*"
}

// Check reports structural problems with the format itself.
func (f *Format) Check() []string {
	var messages []string
	if len(f.Packs) == 0 {
		return []string{ErrNoPacks.Error()}
	}
	for p, pack := range f.Packs {
		if len(pack.Slots) == 0 {
			messages = append(messages, fmt.Sprintf("pack %d has no slots", p+1))
			continue
		}
		if len(pack.Steps) == 0 {
			continue
		}
		taken := 0
		for _, step := range pack.Steps {
			switch step.Action {
			case ActionPick, ActionTrash, ActionPickRandom, ActionTrashRandom:
				taken += step.Amount
			case ActionPass:
			default:
				messages = append(messages, fmt.Sprintf("pack %d has unknown step action %q", p+1, step.Action))
			}
			if step.Amount <= 0 {
				messages = append(messages, fmt.Sprintf("pack %d has a %s step with non-positive amount", p+1, step.Action))
			}
		}
		if taken != len(pack.Slots) {
			messages = append(messages, fmt.Sprintf("pack %d picks or trashes %d cards but has %d slots", p+1, taken, len(pack.Slots)))
		}
	}
	return messages
}
