// Package rotation implements the turn-rotation engine: resolving whose
// turn it is, renumbering after removals and producing unbiased shuffles.
// It is pure and never touches the database; repositories and services
// feed it member slices and persist what it returns.
package rotation

import (
	"math/rand"
	"sort"

	"github.com/cinecircle/cinecircle-backend/internal/models"
)

// Eligible returns the members that can take a turn (IsSkipped == false),
// sorted ascending by rotation order. The input is not modified.
func Eligible(members []models.Member) []models.Member {
	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		if !m.IsSkipped {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RotationOrder < out[j].RotationOrder
	})
	return out
}

// CurrentPicker resolves the member whose turn it is. It returns nil when
// no one may pick: every member skipped, or the index out of range after
// membership changed underneath it.
func CurrentPicker(members []models.Member, pickerIndex int) *models.Member {
	eligible := Eligible(members)
	if pickerIndex < 0 || pickerIndex >= len(eligible) {
		return nil
	}
	m := eligible[pickerIndex]
	return &m
}

// EligibleIndex returns the position of memberID in the eligible list, or
// -1 when the member is absent or skipped.
func EligibleIndex(members []models.Member, memberID uint) int {
	for i, m := range Eligible(members) {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

// Renumber returns the members sorted by rotation order with orders
// rewritten to the contiguous sequence 0..N-1, preserving relative order.
func Renumber(members []models.Member) []models.Member {
	out := make([]models.Member, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RotationOrder < out[j].RotationOrder
	})
	for i := range out {
		out[i].RotationOrder = i
	}
	return out
}

// Shuffle returns a uniformly random permutation of the members with
// rotation orders 0..N-1 assigned in shuffled sequence. Fisher-Yates is
// used so every permutation is equally likely. The random source is the
// caller's, which keeps tests deterministic.
func Shuffle(members []models.Member, r *rand.Rand) []models.Member {
	out := make([]models.Member, len(members))
	copy(out, members)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	for i := range out {
		out[i].RotationOrder = i
	}
	return out
}

// NextOrder returns the rotation order for a joining member: one past the
// current maximum, or 0 for an empty group.
func NextOrder(members []models.Member) int {
	next := 0
	for _, m := range members {
		if m.RotationOrder >= next {
			next = m.RotationOrder + 1
		}
	}
	return next
}
