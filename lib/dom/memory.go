package dom

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MemDocument is an in-memory Document. Its nodes render as HTML and
// implement templ.Component, so a rendered tree can be written to an HTTP
// response directly.
type MemDocument struct {
	created int
}

var (
	_ Document   = (*MemDocument)(nil)
	_ RawCreator = (*MemDocument)(nil)
)

// NewDocument creates an empty in-memory document.
func NewDocument() *MemDocument {
	return &MemDocument{}
}

// Created returns how many elements the document has constructed.
func (d *MemDocument) Created() int {
	return d.created
}

// CreateElement creates a detached element.
func (d *MemDocument) CreateElement(tag string) Element {
	d.created++
	return &MemElement{
		tag:       strings.ToLower(tag),
		attrs:     orderedmap.New[string, string](),
		listeners: make(map[string][]func(Event)),
	}
}

// CreateText creates a text node. Text is escaped when rendered.
func (d *MemDocument) CreateText(text string) Node {
	return &MemText{Text: text}
}

// CreateRaw wraps a templ component as a node rendered without escaping.
func (d *MemDocument) CreateRaw(c templ.Component) Node {
	return &MemRaw{Component: c}
}

// MemElement is an element of a MemDocument.
type MemElement struct {
	tag       string
	attrs     *orderedmap.OrderedMap[string, string]
	listeners map[string][]func(Event)
	children  []Node
}

var (
	_ Element         = (*MemElement)(nil)
	_ templ.Component = (*MemElement)(nil)
)

func (e *MemElement) NodeName() string { return e.tag }

func (e *MemElement) TagName() string { return e.tag }

// SetAttribute sets name to value. Re-setting keeps the attribute's
// original position.
func (e *MemElement) SetAttribute(name, value string) {
	e.attrs.Set(name, value)
}

func (e *MemElement) RemoveAttribute(name string) {
	e.attrs.Delete(name)
}

func (e *MemElement) GetAttribute(name string) (string, bool) {
	return e.attrs.Get(name)
}

// Attributes returns the attribute names in insertion order.
func (e *MemElement) Attributes() []string {
	names := make([]string, 0, e.attrs.Len())
	for pair := e.attrs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Equal reports pointer identity.
func (e *MemElement) Equal(other Element) bool {
	o, ok := other.(*MemElement)
	return ok && o == e
}

func (e *MemElement) AddEventListener(event string, handler func(Event)) {
	if handler == nil {
		return
	}
	e.listeners[event] = append(e.listeners[event], handler)
}

// Listeners returns how many handlers are bound to event.
func (e *MemElement) Listeners(event string) int {
	return len(e.listeners[event])
}

// Events returns the sorted names of all events with at least one listener.
func (e *MemElement) Events() []string {
	var names []string
	for name, hs := range e.listeners {
		if len(hs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the listeners bound to event and returns how many ran.
func (e *MemElement) Dispatch(event string, ev Event) int {
	if ev == nil {
		ev = BasicEvent{Name: event}
	}
	hs := e.listeners[event]
	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}

func (e *MemElement) AppendChild(child Node) {
	if child == nil {
		return
	}
	e.children = append(e.children, child)
}

// Children returns the element's child nodes.
func (e *MemElement) Children() []Node {
	return e.children
}

// Render writes the element as HTML.
func (e *MemElement) Render(ctx context.Context, w io.Writer) error {
	n, err := e.htmlNode(ctx)
	if err != nil {
		return err
	}
	return html.Render(w, n)
}

// HTML renders the element to a string, ignoring errors from embedded
// templ components.
func (e *MemElement) HTML() string {
	var buf bytes.Buffer
	_ = e.Render(context.Background(), &buf)
	return buf.String()
}

func (e *MemElement) htmlNode(ctx context.Context) (*html.Node, error) {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	for pair := e.attrs.Oldest(); pair != nil; pair = pair.Next() {
		n.Attr = append(n.Attr, html.Attribute{Key: pair.Key, Val: pair.Value})
	}
	for _, child := range e.children {
		c, err := toHTML(ctx, child)
		if err != nil {
			return nil, err
		}
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n, nil
}

// MemText is a text node.
type MemText struct {
	Text string
}

func (t *MemText) NodeName() string { return "#text" }

// Render writes the escaped text.
func (t *MemText) Render(ctx context.Context, w io.Writer) error {
	return html.Render(w, &html.Node{Type: html.TextNode, Data: t.Text})
}

// MemRaw embeds a templ component.
type MemRaw struct {
	Component templ.Component
}

func (r *MemRaw) NodeName() string { return "#raw" }

// Render delegates to the wrapped component.
func (r *MemRaw) Render(ctx context.Context, w io.Writer) error {
	if r.Component == nil {
		return nil
	}
	return r.Component.Render(ctx, w)
}

func toHTML(ctx context.Context, n Node) (*html.Node, error) {
	switch n := n.(type) {
	case *MemElement:
		return n.htmlNode(ctx)
	case *MemText:
		return &html.Node{Type: html.TextNode, Data: n.Text}, nil
	case *MemRaw:
		var buf bytes.Buffer
		if err := n.Render(ctx, &buf); err != nil {
			return nil, err
		}
		return &html.Node{Type: html.RawNode, Data: buf.String()}, nil
	case templ.Component:
		var buf bytes.Buffer
		if err := n.Render(ctx, &buf); err != nil {
			return nil, err
		}
		return &html.Node{Type: html.RawNode, Data: buf.String()}, nil
	default:
		return nil, nil
	}
}
