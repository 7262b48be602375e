// Package observer is a small synchronous callback registry. Callbacks run in
// the order they subscribed, on the goroutine that calls Notify.
package observer

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Token identifies one subscription.
type Token = uuid.UUID

type entry[T any] struct {
	token Token
	fn    func(T)
}

// Registry is ready to use as a zero value; an empty registry notifies no one.
type Registry[T any] struct {
	entries []entry[T]
}

func (r *Registry[T]) Subscribe(fn func(T)) Token {
	token := uuid.New()
	r.entries = append(r.entries, entry[T]{token: token, fn: fn})
	return token
}

// Unsubscribe reports whether token was subscribed.
func (r *Registry[T]) Unsubscribe(token Token) bool {
	i := slices.IndexFunc(r.entries, func(e entry[T]) bool { return e.token == token })
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// Notify calls every subscriber with v. Subscriptions added or removed by a
// callback take effect on the next Notify.
func (r *Registry[T]) Notify(v T) {
	if len(r.entries) == 0 {
		return
	}
	for _, e := range slices.Clone(r.entries) {
		e.fn(v)
	}
}

func (r *Registry[T]) Len() int {
	return len(r.entries)
}

func (r *Registry[T]) Clear() {
	r.entries = nil
}
