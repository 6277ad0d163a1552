// Package shuffle implements the anti-repeat shuffle deck (C3): a
// permutation of track indices that avoids replaying the tail of the
// previous permutation right at the start of the next one.
package shuffle

import "math/rand"

// Deck holds a shuffled permutation of [0, n) and a cursor into it. It is
// not safe for concurrent use; callers (internal/engine) serialize access
// with their own lock, the same way the teacher guards playlist state.
type Deck struct {
	n         int
	carryOver int
	order     []int
	pos       int
	lastTail  []int
}

// NewDeck builds a deck over n indices. carryOver is clamped to n/2, exactly
// as the original does, so a pathologically large carry-over can never
// exhaust the candidates available for the next permutation's head.
func NewDeck(n, carryOver int) *Deck {
	d := &Deck{}
	d.Reset(n, carryOver)
	return d
}

// Reset rebuilds the deck for n indices and carryOver, clearing any
// remembered tail from a previous playlist.
func (d *Deck) Reset(n, carryOver int) {
	d.n = n
	if carryOver > n/2 {
		carryOver = n / 2
	}
	d.carryOver = carryOver
	d.lastTail = nil
	d.build()
}

// build shuffles a fresh permutation, biasing the head away from
// d.lastTail: the first index in the new order that was not part of the
// previous deck's tail is swapped into position 0. If every index is in the
// tail (can only happen when carryOver == n), no swap occurs.
func (d *Deck) build() {
	order := rand.Perm(d.n)

	if len(d.lastTail) > 0 {
		tail := make(map[int]bool, len(d.lastTail))
		for _, idx := range d.lastTail {
			tail[idx] = true
		}
		for i, idx := range order {
			if !tail[idx] {
				order[0], order[i] = order[i], order[0]
				break
			}
		}
	}

	d.order = order
	d.pos = 0

	if d.carryOver > 0 && d.n > 0 {
		start := d.n - d.carryOver
		if start < 0 {
			start = 0
		}
		d.lastTail = append([]int(nil), d.order[start:]...)
	} else {
		d.lastTail = nil
	}
}

// Current returns the track index at the cursor. Only valid when n > 0.
func (d *Deck) Current() int {
	return d.order[d.pos]
}

// Advance moves the cursor forward, rebuilding a fresh permutation once the
// end is reached.
func (d *Deck) Advance() {
	d.pos++
	if d.pos >= d.n {
		d.build()
	}
}

// Rewind moves the cursor back one step, clamped at the start of the
// current permutation — it never reaches back into a prior permutation.
func (d *Deck) Rewind() {
	if d.pos > 0 {
		d.pos--
	}
}

// Len reports how many indices the deck covers.
func (d *Deck) Len() int {
	return d.n
}
