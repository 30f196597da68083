// Package widget holds the rating display elements and renders them as HTML.
//
// Every Element starts in Loading and moves exactly once per load cycle to
// Loaded or Errored. Writes overwrite the element's whole content.
package widget

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"sync"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// State is the display state of an Element.
type State int

// Element states.
const (
	Loading State = iota
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const loadingMarkup = `<span class="rating-value rating-loading">Loading…</span>`

// Element is one rating widget.
type Element struct {
	id       string
	markup   string
	value    string
	subtitle string
	color    string
	mu       sync.Mutex
	state    State
}

func newElement(id string) *Element {
	return &Element{id: id, state: Loading, markup: loadingMarkup}
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// State returns the current state.
func (e *Element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// HTML returns the element's inner markup.
func (e *Element) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.markup
}

// Class returns the element's class attribute.
func (e *Element) Class() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Loaded {
		return "rating-card loaded"
	}
	return "rating-card"
}

// Update shows a rating. Values are escaped before they reach the markup.
func (e *Element) Update(value, subtitle, color string) {
	markup := fmt.Sprintf(`<span class="rating-value" style="color: %s">%s</span><span class="rating-subtitle">%s</span>`,
		html.EscapeString(color), html.EscapeString(value), html.EscapeString(subtitle))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Loaded
	e.markup = markup
	e.value, e.subtitle, e.color = value, subtitle, color
}

// Error shows the placeholder with no color or subtitle.
func (e *Element) Error() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Errored
	e.markup = `<span class="rating-value">` + rating.Placeholder + `</span>`
	e.value, e.subtitle, e.color = rating.Placeholder, "", ""
}

// View is a point-in-time copy of an Element.
type View struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Value    string `json:"value,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Color    string `json:"color,omitempty"`
}

func (e *Element) view() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{ID: e.id, State: e.state.String(), Value: e.value, Subtitle: e.subtitle, Color: e.color}
}

type style struct {
	ID  string
	CSS template.CSS
}

// Document is the fixed set of elements a page load writes to.
type Document struct {
	byID     map[string]*Element
	order    []*Element
	styles   []style
	styleIDs map[string]bool
	mu       sync.Mutex
}

// NewDocument creates a Document with one Loading element per id.
// Duplicate ids are collapsed.
func NewDocument(ids ...string) *Document {
	d := &Document{
		byID:     make(map[string]*Element, len(ids)),
		styleIDs: make(map[string]bool),
	}
	for _, id := range ids {
		if _, ok := d.byID[id]; ok {
			continue
		}
		el := newElement(id)
		d.byID[id] = el
		d.order = append(d.order, el)
	}
	return d
}

// Element returns the element with the given id, or nil.
func (d *Document) Element(id string) *Element {
	return d.byID[id]
}

// Elements returns the elements in creation order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, len(d.order))
	copy(out, d.order)
	return out
}

// InjectStyle adds a stylesheet once per id. It reports whether the sheet was added.
func (d *Document) InjectStyle(id, css string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.styleIDs[id] {
		return false
	}
	d.styleIDs[id] = true
	d.styles = append(d.styles, style{ID: id, CSS: template.CSS(css)}) //nolint:gosec // stylesheets are compiled in
	return true
}

// Snapshot returns a view of every element in order.
func (d *Document) Snapshot() []View {
	out := make([]View, len(d.order))
	for i, el := range d.order {
		out[i] = el.view()
	}
	return out
}

var page = template.Must(template.New("ratings").Parse(`{{range .Styles}}<style id="{{.ID}}">{{.CSS}}</style>
{{end}}<section id="ratings" class="ratings">
{{range .Cards}}<div id="{{.ID}}" class="{{.Class}}">{{.HTML}}</div>
{{end}}</section>
`))

type card struct {
	ID    string
	Class string
	HTML  template.HTML
}

// Render writes the rating section as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	styles := make([]style, len(d.styles))
	copy(styles, d.styles)
	d.mu.Unlock()

	cards := make([]card, len(d.order))
	for i, el := range d.order {
		// Markup is built from escaped values only.
		cards[i] = card{ID: el.ID(), Class: el.Class(), HTML: template.HTML(el.HTML())} //nolint:gosec // see above
	}

	return page.Execute(w, struct {
		Styles []style
		Cards  []card
	}{styles, cards})
}
