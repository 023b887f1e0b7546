// Package drag turns pointer motion over a column of siblings into a live
// reorder, one neighbour at a time.
package drag

import (
	"errors"
	"fmt"
)

// State is the controller's position in the press/drag/release cycle.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Kind says which sibling set is being dragged.
type Kind int

const (
	Lists Kind = iota
	Tasks
)

var (
	// ErrBusy is returned by Press when a drag is already in progress.
	ErrBusy = errors.New("drag already in progress")

	// ErrUnknownItem is returned by Press for an id not in the container.
	ErrUnknownItem = errors.New("item not in container")
)

// Item is one sibling with its rendered height.
type Item struct {
	ID     string
	Height int
}

// Container is a vertical run of siblings starting at row Top.
type Container struct {
	Kind Kind

	// ListID owns the tasks when Kind is Tasks.
	ListID string

	Top   int
	Items []Item
}

// Drop is the outcome of a completed drag.
type Drop struct {
	Kind   Kind
	ListID string

	// Moved is the dragged element; From and To are its slot before and
	// after.
	Moved    string
	From, To int

	// Order is the final sibling order, dragged element included.
	Order []string
}

// Changed reports whether the drop altered the order.
func (d Drop) Changed() bool {
	return d.From != d.To
}

// Rect is a vertical span.
type Rect struct {
	Top, Height int
}

// Controller is the drag state machine. The zero value is Idle and ready
// to use. Move never performs I/O.
type Controller struct {
	state     State
	container Container
	order     []Item
	slot      int
	from      int
	offset    int
	pointer   int
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a press or drag is in progress.
func (c *Controller) Active() bool {
	return c.state != Idle
}

// Press records the pressed element and the pointer's offset within it.
func (c *Controller) Press(container Container, id string, pointerY int) error {
	if c.state != Idle {
		return ErrBusy
	}

	idx := -1
	top := container.Top
	for i, it := range container.Items {
		if it.ID == id {
			idx = i
			break
		}
		top += it.Height
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	c.container = container
	c.order = append([]Item(nil), container.Items...)
	c.slot = idx
	c.from = idx
	c.offset = pointerY - top
	c.pointer = pointerY
	c.state = Pressed
	return nil
}

// Move follows the pointer. The first move after a press starts the drag:
// the placeholder takes the element's slot and the element floats with
// the pointer. Every move then compares the element's centre against the
// neighbour above, else the neighbour below, and moves the element and
// its placeholder at most one slot. It reports whether the order changed.
func (c *Controller) Move(pointerY int) bool {
	switch c.state {
	case Idle:
		return false
	case Pressed:
		c.state = Dragging
	}
	c.pointer = pointerY

	// Centres are compared doubled to stay in integers.
	dragged := c.order[c.slot]
	centre := 2*(pointerY-c.offset) + dragged.Height

	if c.slot > 0 {
		prev := c.order[c.slot-1]
		if centre <= 2*c.itemTop(c.slot-1)+prev.Height {
			c.swap(c.slot - 1)
			return true
		}
	}
	if c.slot < len(c.order)-1 {
		next := c.order[c.slot+1]
		if 2*c.itemTop(c.slot+1)+next.Height <= centre {
			c.swap(c.slot + 1)
			return true
		}
	}
	return false
}

// swap exchanges the placeholder slot with slot j.
func (c *Controller) swap(j int) {
	c.order[c.slot], c.order[j] = c.order[j], c.order[c.slot]
	c.slot = j
}

// itemTop is the laid-out top of slot i, the placeholder counting as the
// dragged element's height.
func (c *Controller) itemTop(i int) int {
	top := c.container.Top
	for _, it := range c.order[:i] {
		top += it.Height
	}
	return top
}

// Release ends the interaction. A release after a drag commits the
// current order; a release straight from a press is not a drop.
func (c *Controller) Release() (Drop, bool) {
	defer c.reset()

	if c.state != Dragging {
		return Drop{}, false
	}
	return Drop{
		Kind:   c.container.Kind,
		ListID: c.container.ListID,
		Moved:  c.order[c.slot].ID,
		From:   c.from,
		To:     c.slot,
		Order:  c.Order(),
	}, true
}

// Cancel is a release: losing the pointer commits the visible order.
func (c *Controller) Cancel() (Drop, bool) {
	return c.Release()
}

func (c *Controller) reset() {
	*c = Controller{}
}

// Container returns the container being dragged over.
func (c *Controller) Container() Container {
	return c.container
}

// Order returns the live sibling order, the dragged element in its
// placeholder slot.
func (c *Controller) Order() []string {
	ids := make([]string, len(c.order))
	for i, it := range c.order {
		ids[i] = it.ID
	}
	return ids
}

// Dragged returns the dragged element's id, or "" when idle.
func (c *Controller) Dragged() string {
	if c.state == Idle {
		return ""
	}
	return c.order[c.slot].ID
}

// Slot returns the placeholder's index among the siblings.
func (c *Controller) Slot() int {
	return c.slot
}

// Placeholder returns the span reserved for the dragged element.
func (c *Controller) Placeholder() Rect {
	if c.state != Dragging {
		return Rect{}
	}
	return Rect{Top: c.itemTop(c.slot), Height: c.order[c.slot].Height}
}

// DraggedRect returns where the floating element is drawn.
func (c *Controller) DraggedRect() Rect {
	if c.state == Idle {
		return Rect{}
	}
	return Rect{Top: c.pointer - c.offset, Height: c.order[c.slot].Height}
}
