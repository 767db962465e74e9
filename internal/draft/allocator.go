package draft

import (
	"fmt"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// PackState is one seat's copy of one pack in the initial draft state.
type PackState struct {
	Steps []Step `json:"steps"`

	// CardIndices[i] is the index into the flat card array for slot i.
	// Unresolved slots hold -1.
	CardIndices []int `json:"cards"`
}

// Layout is indexed [seat][pack].
type Layout [][]PackState

// Allocation is the result of one Allocate run.
type Allocation struct {
	OK       bool
	Messages []string
	Layout   Layout
	Cards    []cube.Card
}

// slotRef names one (seat, pack, slot) position.
type slotRef struct {
	seat, pack, slot int
	alts             Slot
}

// schedule is the allocator's processing policy: every filtered slot is
// resolved before any unfiltered slot, each queue in seat-major, pack-major,
// slot-minor order. Constrained slots go first so wildcards cannot consume
// the only cards that satisfy them.
type schedule struct {
	filtered   []slotRef
	unfiltered []slotRef
}

func newSchedule(f *Format, seats int) schedule {
	var s schedule
	for seat := 0; seat < seats; seat++ {
		for p, pack := range f.Packs {
			for c, text := range pack.Slots {
				ref := slotRef{seat: seat, pack: p, slot: c, alts: ParseSlot(text)}
				if ref.alts.Unfiltered() {
					s.unfiltered = append(s.unfiltered, ref)
				} else {
					s.filtered = append(s.filtered, ref)
				}
			}
		}
	}
	return s
}

func (s schedule) phases() [][]slotRef {
	return [][]slotRef{s.filtered, s.unfiltered}
}

// Allocate resolves every slot of every pack for every seat.
//
// A failed slot marks the run failed but processing continues so that every
// unsatisfiable slot is reported. Cards[GlobalIndex(...)] always holds the
// card for that position regardless of resolution order.
func Allocate(f *Format, seats int, next NextCardFunc) Allocation {
	if seats <= 0 {
		return Allocation{Messages: []string{ErrNoSeats.Error()}}
	}
	if len(f.Packs) == 0 {
		return Allocation{Messages: []string{ErrNoPacks.Error()}}
	}

	cardsPerSeat := f.CardsPerSeat()
	offsets := f.PackOffsets()
	total := seats * cardsPerSeat

	layout := make(Layout, seats)
	filled := make([][]int, seats)
	for seat := range layout {
		layout[seat] = make([]PackState, len(f.Packs))
		filled[seat] = make([]int, len(f.Packs))
		for p, pack := range f.Packs {
			indices := make([]int, len(pack.Slots))
			for i := range indices {
				indices[i] = -1
			}
			layout[seat][p] = PackState{CardIndices: indices}
		}
	}

	result := Allocation{
		OK:     true,
		Layout: layout,
		Cards:  make([]cube.Card, total),
	}

	for _, phase := range newSchedule(f, seats).phases() {
		for _, ref := range phase {
			card, messages, ok := next(ref.alts)
			result.Messages = append(result.Messages, messages...)
			if !ok {
				result.OK = false
				continue
			}

			index := GlobalIndex(cardsPerSeat, offsets, ref.seat, ref.pack, ref.slot)
			result.Cards[index] = card
			pack := &layout[ref.seat][ref.pack]
			pack.CardIndices[ref.slot] = index

			filled[ref.seat][ref.pack]++
			if filled[ref.seat][ref.pack] == len(f.Packs[ref.pack].Slots) {
				pack.Steps = f.StepsFor(ref.pack)
			}
		}
	}

	// Failed slots already leave holes; the checks only run on otherwise clean runs.
	if result.OK {
		if msg := checkPermutation(layout, total); msg != "" {
			result.OK = false
			result.Messages = append(result.Messages, msg)
		}
	}

	return result
}

// checkPermutation verifies the assigned indices are exactly 0..total-1.
// A failure here is an allocator defect, not bad input.
func checkPermutation(layout Layout, total int) string {
	var sum int64
	populated := 0
	for _, packs := range layout {
		for _, pack := range packs {
			for _, index := range pack.CardIndices {
				if index < 0 {
					continue
				}
				sum += int64(index)
				populated++
			}
		}
	}

	want := int64(total) * int64(total-1) / 2
	if sum != want {
		return fmt.Sprintf("card index checksum mismatch: got %d, want %d", sum, want)
	}
	if populated != total {
		return fmt.Sprintf("populated %d of %d card slots", populated, total)
	}
	return ""
}
