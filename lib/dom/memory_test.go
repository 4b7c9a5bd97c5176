package dom

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemElementAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("DIV")

	assert.Equal(t, "div", el.TagName())

	el.SetAttribute("id", "a")
	el.SetAttribute("class", "x")
	el.SetAttribute("id", "b")

	v, ok := el.GetAttribute("id")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, []string{"id", "class"}, el.(*MemElement).Attributes())

	el.RemoveAttribute("id")
	_, ok = el.GetAttribute("id")
	assert.False(t, ok)
	assert.Equal(t, 1, doc.Created())
}

func TestMemElementEqual(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateElement("div")
	b := doc.CreateElement("div")

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestMemElementDispatch(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("button").(*MemElement)

	var got []string
	el.AddEventListener("click", func(ev Event) { got = append(got, ev.Type()) })
	el.AddEventListener("click", nil)

	assert.Equal(t, 1, el.Listeners("click"))
	assert.Equal(t, 1, el.Dispatch("click", nil))
	assert.Equal(t, 0, el.Dispatch("keydown", KeyboardEvent{BasicEvent: BasicEvent{Name: "keydown"}, Key: "a"}))
	assert.Equal(t, []string{"click"}, got)
	assert.Equal(t, []string{"click"}, el.Events())
}

func TestMemElementRender(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("class", "card")
	div.AppendChild(doc.CreateText("a < b"))

	img := doc.CreateElement("img")
	img.SetAttribute("id", "x")
	div.AppendChild(img)
	div.AppendChild(nil)

	assert.Equal(t, `<div class="card">a &lt; b<img id="x"/></div>`, div.(*MemElement).HTML())
}

func TestMemElementRenderRaw(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateRaw(templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>bold</b>")
		return err
	})))

	var buf bytes.Buffer
	require.NoError(t, p.(*MemElement).Render(context.Background(), &buf))
	assert.Equal(t, "<p><b>bold</b></p>", buf.String())
}
