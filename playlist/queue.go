package playlist

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Keyed items carry a stable identity across reloads.
type Keyed interface {
	Key() string
}

// Queue is an ordered list with a selection tracked by key.
// It is not safe for concurrent use.
type Queue[T Keyed] struct {
	items    []T
	selected string
}

// NewQueue returns a queue holding items with the first one selected.
func NewQueue[T Keyed](items []T) *Queue[T] {
	q := &Queue[T]{}
	q.SetItems(items)
	return q
}

// SetItems replaces the list. The selection survives when its key is still
// present; otherwise the first item is selected.
func (q *Queue[T]) SetItems(items []T) {
	q.items = items

	if _, ok := q.indexOf(q.selected); ok {
		return
	}

	q.selected = ""
	if len(items) > 0 {
		q.selected = items[0].Key()
	}
}

// Items returns the list.
func (q *Queue[T]) Items() []T {
	return q.items
}

// Len returns the number of items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Index returns the selected index, or -1.
func (q *Queue[T]) Index() int {
	i, ok := q.indexOf(q.selected)
	if !ok {
		return -1
	}
	return i
}

// Current returns the selected item.
func (q *Queue[T]) Current() mo.Option[T] {
	i := q.Index()
	if i < 0 {
		return mo.None[T]()
	}
	return mo.Some(q.items[i])
}

// Select marks the item with key as selected. Unknown keys are ignored.
func (q *Queue[T]) Select(key string) bool {
	if _, ok := q.indexOf(key); !ok {
		return false
	}
	q.selected = key
	return true
}

// Goto selects the item at i, wrapping out-of-range indices.
func (q *Queue[T]) Goto(i int) mo.Option[T] {
	if len(q.items) == 0 {
		return mo.None[T]()
	}
	item := q.items[Wrap(i, len(q.items))]
	q.selected = item.Key()
	return mo.Some(item)
}

// Advance moves the selection according to mode and trigger.
func (q *Queue[T]) Advance(mode Mode, trigger Trigger, rng Rand) mo.Option[T] {
	next, ok := NextIndex(mode, max(q.Index(), 0), len(q.items), trigger, rng).Get()
	if !ok {
		return mo.None[T]()
	}
	return q.Goto(next)
}

func (q *Queue[T]) indexOf(key string) (int, bool) {
	if key == "" {
		return -1, false
	}
	_, i, ok := lo.FindIndexOf(q.items, func(item T) bool {
		return item.Key() == key
	})
	return i, ok
}
