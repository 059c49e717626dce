// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

// Package watcher implements a change-detection cell for values that are
// polled once per tick. A Watcher remembers the previous and the current value
// of the quantity it is watching and the Pair type answers questions about the
// transition between the two.
//
// A Watcher that has never been updated has no pair. Callers should treat a
// missing pair as "no baseline yet" and defer any decision until the next
// tick.
package watcher

import "cmp"

// Pair is the most recent transition of a watched value.
type Pair[T comparable] struct {
	Old     T
	Current T
}

// Changed returns true if the current value is different to the old value.
func (p Pair[T]) Changed() bool {
	return p.Old != p.Current
}

// ChangedFrom returns true if the value changed and the old value was v.
func (p Pair[T]) ChangedFrom(v T) bool {
	return p.Old == v && p.Current != v
}

// ChangedTo returns true if the value changed and the current value is v.
func (p Pair[T]) ChangedTo(v T) bool {
	return p.Old != v && p.Current == v
}

// ChangedFromTo returns true if the value changed from exactly old to exactly
// current.
func (p Pair[T]) ChangedFromTo(old T, current T) bool {
	return p.Old == old && p.Current == current && old != current
}

// Increased returns true if the current value of the pair is greater than the
// old value.
func Increased[T cmp.Ordered](p Pair[T]) bool {
	return p.Current > p.Old
}

// Decreased returns true if the current value of the pair is less than the
// old value.
func Decreased[T cmp.Ordered](p Pair[T]) bool {
	return p.Current < p.Old
}

// Watcher holds the previous and current value of a polled quantity. The zero
// value is a Watcher that has not yet been updated.
type Watcher[T comparable] struct {
	pair  Pair[T]
	valid bool
}

// Get returns the current pair. The second return value is false if the
// Watcher has never been updated.
func (w *Watcher[T]) Get() (Pair[T], bool) {
	return w.pair, w.valid
}

// Update the watcher with a new value. If ok is false the value is ignored,
// the state of the watcher is untouched and the existing pair is returned.
// This allows the result of a failed read to be passed straight to Update().
//
// On the very first successful update both the old and current values are
// set to v.
func (w *Watcher[T]) Update(v T, ok bool) (Pair[T], bool) {
	if !ok {
		return w.pair, w.valid
	}
	return w.Set(v), true
}

// Set is the infallible variant of Update().
func (w *Watcher[T]) Set(v T) Pair[T] {
	if w.valid {
		w.pair.Old = w.pair.Current
	} else {
		w.pair.Old = v
		w.valid = true
	}
	w.pair.Current = v
	return w.pair
}

// Reset forgets all values. The watcher will behave as though it has never
// been updated.
func (w *Watcher[T]) Reset() {
	var z Pair[T]
	w.pair = z
	w.valid = false
}
