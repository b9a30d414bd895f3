package picker

// Viewport is a fixed-capacity window over a ranked list plus a selection.
//
// bottom and top are inclusive indices into the ranked list. Contents is
// the materialized window, reversed so that index 0 is the row farthest
// from the prompt and capacity-1 is the row directly above it. The best
// match therefore sits next to the prompt.
type Viewport[T any] struct {
	capacity int
	bottom   int
	top      int
	selected int
	contents []Item[T]
}

// NewViewport returns an empty viewport with the selection on the row
// nearest the prompt. Capacities below one are raised to one.
func NewViewport[T any](capacity int) *Viewport[T] {
	if capacity < 1 {
		capacity = 1
	}
	v := &Viewport[T]{
		capacity: capacity,
		top:      capacity - 1,
		selected: capacity - 1,
	}
	v.contents = make([]Item[T], capacity)
	for i := range v.contents {
		v.contents[i] = blankItem[T]()
	}
	return v
}

// Capacity returns the number of rows in the window.
func (v *Viewport[T]) Capacity() int { return v.capacity }

// SelectedIndex returns the selected row within Contents.
func (v *Viewport[T]) SelectedIndex() int { return v.selected }

// Bounds returns the inclusive ranked-list indices shown in the window.
func (v *Viewport[T]) Bounds() (bottom, top int) { return v.bottom, v.top }

// Contents returns the rendered rows. The slice is owned by the viewport
// and is replaced on the next Rebuild.
func (v *Viewport[T]) Contents() []Item[T] { return v.contents }

// Rebuild materializes the window over ranked and re-applies the floor rule.
func (v *Viewport[T]) Rebuild(ranked []Item[T]) {
	n := len(ranked)

	// Keep the window as full as the list allows after it shrank.
	if maxBottom := max(n-v.capacity, 0); v.bottom > maxBottom {
		v.bottom = maxBottom
	}
	v.top = min(v.bottom+v.capacity-1, max(n-1, 0))

	window := make([]Item[T], 0, v.capacity)
	if n > 0 {
		window = append(window, ranked[v.bottom:v.top+1]...)
	}
	for len(window) < v.capacity {
		window = append(window, blankItem[T]())
	}
	for i, j := 0, len(window)-1; i < j; i, j = i+1, j-1 {
		window[i], window[j] = window[j], window[i]
	}
	v.contents = window
	v.floorSelected()
}

// floorSelected moves the selection off blank padding onto the lowest
// real row. With no real rows the selection is left alone.
func (v *Viewport[T]) floorSelected() {
	if !v.contents[v.selected].Blank {
		return
	}
	for i := v.selected + 1; i < v.capacity; i++ {
		if !v.contents[i].Blank {
			v.selected = i
			return
		}
	}
}

// MoveUp moves the selection away from the prompt, scrolling the window
// toward lower-ranked matches once the selection reaches row 0. With no
// matches the selection stays put.
func (v *Viewport[T]) MoveUp(ranked []Item[T]) {
	if len(ranked) == 0 {
		return
	}
	switch {
	case v.selected > 0:
		v.selected--
	case v.top < len(ranked)-1:
		v.bottom++
		v.top++
	}
	v.Rebuild(ranked)
}

// MoveDown moves the selection toward the prompt. At the last row the
// window scrolls back toward the best matches while the cursor row holds
// still.
func (v *Viewport[T]) MoveDown(ranked []Item[T]) {
	if len(ranked) == 0 {
		return
	}
	switch {
	case v.selected < v.capacity-1:
		v.selected++
	case v.bottom > 0:
		v.bottom--
		v.top--
	}
	v.Rebuild(ranked)
}

// Selected returns the payload of the selected row, if it is a real item.
func (v *Viewport[T]) Selected() (T, bool) {
	it := v.contents[v.selected]
	if it.Blank {
		var zero T
		return zero, false
	}
	return it.Payload, true
}
