// Package progress provides the scripted progress log shown while a
// classification request is in flight.
//
// The animator has no relation to the real request: it emits a fixed list
// of steps separated by short random pauses. It is purely cosmetic, so a
// cancelled context ends the sequence quietly instead of returning an error.
package progress
