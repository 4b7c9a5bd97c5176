package propview

import (
	"testing"

	"github.com/a-h/templ"
	"github.com/pthm/propview/lib/cascade"
	"github.com/pthm/propview/lib/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestAttributesWithDefaults(t *testing.T) {
	defaults := Attrs(cascade.Decl("role", "button"), cascade.Decl("tabindex", "0"))
	user := Attrs(cascade.Unset("tabindex"), cascade.Decl("data-x", "1"))

	merged := user.WithDefaults(defaults)

	v, ok := merged.Get("role")
	require.True(t, ok)
	assert.Equal(t, "button", *v)

	v, ok = merged.Get("tabindex")
	assert.True(t, ok)
	assert.Nil(t, v, "explicit unset survives the merge")

	assert.Equal(t, 3, merged.Len())
	assert.Equal(t, "role: button; data-x: 1;", merged.String())
}

func TestAttributesApply(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.CreateElement("div")
	el.SetAttribute("hidden", "")

	Attrs(cascade.Decl("id", "main"), cascade.Unset("hidden")).Apply(el)

	m := el.(*dom.MemElement)
	assert.Equal(t, []string{"id"}, m.Attributes())

	Attributes{}.Apply(el)
	Attrs(cascade.Decl("x", "1")).Apply(nil)
}

func TestAttributesTempl(t *testing.T) {
	a := Attrs(cascade.Decl("hx-get", "/items"), cascade.Unset("hx-swap"))
	assert.Equal(t, templ.Attributes{"hx-get": "/items"}, a.Templ())
	assert.Equal(t, templ.Attributes{}, Attributes{}.Templ())
}

func TestAttributesFromMap(t *testing.T) {
	a := AttrsFromMap(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, "a: 1; b: 2;", a.String())
	assert.True(t, AttrsFromMap(nil).IsZero())
}

func TestAttributesMsgpack(t *testing.T) {
	type props struct {
		Attributes Attributes
	}
	in := props{Attributes: Attrs(cascade.Decl("id", "a"), cascade.Unset("title"))}

	data, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out props
	require.NoError(t, msgpack.Unmarshal(data, &out))
	assert.True(t, in.Attributes.Map().Equal(out.Attributes.Map()))
}

func TestStyleRendering(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"text", StyleText("margin: 1rem;"), "margin: 1rem;"},
		{
			"structured",
			Styles(cascade.Decl("color", "white"), cascade.Unset("background-color"), cascade.Decl("border", "1px solid black")),
			"color: white; border: 1px solid black;",
		},
		{
			"defaults",
			Styles(cascade.Decl("a", "1")).WithDefaults(Styles(cascade.Decl("b", "2"))),
			"b: 2; a: 1;",
		},
		{"absent", Style{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
