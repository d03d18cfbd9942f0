// Package action routes interactions to application logic by walking a
// rendered element tree upward from the event origin, looking for the nearest
// ancestor carrying an action attribute. Handlers are bound once at the
// registry, not at the leaf elements, so views can regenerate their rows
// wholesale on every refresh without rebinding anything or leaking handlers.
package action

import (
	"fmt"
	"sync"
)

// AttrAction is the attribute that names the action on an element.
const AttrAction = "action"

// Element is a node in the rendered tree. Views rebuild elements freely; an
// element's identity (pointer) only matters for the duration of one handler
// invocation, where it is used to suppress re-entry.
type Element struct {
	parent *Element
	attrs  map[string]string
}

// NewElement creates an element under parent (nil for a root).
func NewElement(parent *Element, attrs map[string]string) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{parent: parent, attrs: attrs}
}

func (e *Element) Parent() *Element { return e.parent }

// Attr returns the named attribute, walking no further than this element.
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.attrs[name]
}

// SetAttr sets an attribute on the element.
func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

// Lookup returns the named attribute from the element or its nearest ancestor
// carrying it. Row-level context (ids) lives on container elements while the
// action attribute sits on the triggering control.
func (e *Element) Lookup(name string) string {
	for el := e; el != nil; el = el.parent {
		if v, ok := el.attrs[name]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Handler is invoked with the element that carried the action attribute as
// context (so it can read sibling attributes like "task-id"). Handlers may do
// network work; a handler's error is surfaced by the dispatching view.
type Handler func(el *Element) error

// Registry is the process-wide action table: write-once-per-name, read-many.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]Handler
	// busy holds elements whose handler invocation has not finished yet.
	// Dispatching the same element again during that window is a no-op; this
	// is the debounce that keeps destructive actions single-fire.
	busy map[*Element]bool
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		busy:     make(map[*Element]bool),
	}
}

// Register maps an action name to a handler. Re-registering a name replaces
// the previous handler (last registration wins); exactly one handler is ever
// invoked per dispatched event. Duplicate-stacking is the defect this
// registry exists to prevent.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Registered reports whether a handler exists for name.
func (r *Registry) Registered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[name]
	return ok
}

// Dispatch walks from origin upward to the nearest ancestor carrying a
// recognized action attribute and invokes its handler with that element as
// context. It reports whether a handler ran.
//
// No recognized ancestor, an unregistered action name, or an element whose
// previous invocation is still pending all result in a no-op.
func (r *Registry) Dispatch(origin *Element) (handled bool, err error) {
	el, h := r.resolve(origin)
	if el == nil {
		return false, nil
	}

	r.mu.Lock()
	if r.busy[el] {
		r.mu.Unlock()
		return false, nil
	}
	r.busy[el] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.busy, el)
		r.mu.Unlock()
	}()

	return true, h(el)
}

// Busy reports whether el's handler invocation is still pending.
func (r *Registry) Busy(el *Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[el]
}

func (r *Registry) resolve(origin *Element) (*Element, Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for el := origin; el != nil; el = el.parent {
		name := el.attrs[AttrAction]
		if name == "" {
			continue
		}
		if h, ok := r.handlers[name]; ok {
			return el, h
		}
		// An action attribute without a registered handler keeps walking:
		// the nearest *recognized* ancestor wins.
	}
	return nil, nil
}

// MustAttr returns the named attribute (searching ancestors) or an error;
// used by handlers that require row context (e.g. a task id).
func MustAttr(el *Element, name string) (string, error) {
	v := el.Lookup(name)
	if v == "" {
		return "", fmt.Errorf("action element missing %q attribute", name)
	}
	return v, nil
}
