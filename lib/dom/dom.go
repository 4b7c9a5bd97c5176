// Package dom defines the host element API that propview render procedures
// drive, and ships an in-memory host that serializes to HTML.
//
// A host supplies element construction for a named tag, attribute
// set/remove/read primitives, element equality and event binding. propview
// never inspects a host beyond these contracts.
package dom

import "github.com/a-h/templ"

// Event is a host event passed to listeners.
type Event interface {
	Type() string
}

// Node is anything that can be inserted under an Element.
type Node interface {
	// NodeName follows the DOM convention: the tag name for elements,
	// "#text" for text nodes.
	NodeName() string
}

// Element is a host element.
type Element interface {
	Node
	TagName() string
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	GetAttribute(name string) (string, bool)
	// Equal reports whether other is the same host element. Render helpers
	// use it to skip redundant work.
	Equal(other Element) bool
	AddEventListener(event string, handler func(Event))
	AppendChild(child Node)
}

// Document constructs host nodes.
type Document interface {
	CreateElement(tag string) Element
	CreateText(text string) Node
}

// RawCreator is implemented by documents that can embed a templ component
// verbatim as a child node.
type RawCreator interface {
	CreateRaw(c templ.Component) Node
}

// BasicEvent is the plain event type dispatched by the in-memory host.
type BasicEvent struct {
	Name   string
	Detail any
}

// Type returns the event name.
func (e BasicEvent) Type() string { return e.Name }

// MouseEvent carries pointer coordinates.
type MouseEvent struct {
	BasicEvent
	X, Y int
}

// KeyboardEvent carries the key that was pressed.
type KeyboardEvent struct {
	BasicEvent
	Key string
}
