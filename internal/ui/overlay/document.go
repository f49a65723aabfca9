package overlay

import (
	"slices"
	"sync"
)

// TargetID identifies the layer that overlays are painted on
const TargetID = "overlay-target"

// RenderFunc paints a layer for the given screen size
type RenderFunc func(width, height int) string

// Layer is one child of the document, painted in document order
type Layer struct {
	ID     string
	Render RenderFunc
	// Inert layers are painted but receive no input
	Inert bool
}

// Document is the ordered list of screen layers
type Document struct {
	mu     sync.Mutex
	layers []*Layer
}

// NewDocument creates a document with the given layers in order
func NewDocument(layers ...Layer) *Document {
	d := &Document{}
	for _, l := range layers {
		d.Append(l)
	}
	return d
}

// Append adds a layer at the end of the document.
// A layer with the same ID is moved rather than duplicated.
func (d *Document) Append(l Layer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detach(l.ID)
	layer := l
	d.layers = append(d.layers, &layer)
}

// Remove detaches the layer with the given ID
func (d *Document) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detach(id) != nil
}

func (d *Document) detach(id string) *Layer {
	idx := slices.IndexFunc(d.layers, func(l *Layer) bool { return l.ID == id })
	if idx < 0 {
		return nil
	}
	l := d.layers[idx]
	d.layers = slices.Delete(d.layers, idx, idx+1)
	return l
}

// EnsureTarget makes sure the overlay target exists and is the last layer.
// Other layers may have been appended since the last call, so the target is
// always re-attached at the end, and any inert marker is cleared.
func (d *Document) EnsureTarget() Layer {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := d.detach(TargetID)
	if target == nil {
		target = &Layer{ID: TargetID}
	}
	target.Inert = false
	d.layers = append(d.layers, target)
	return *target
}

// SetInert updates the inert marker of a layer
func (d *Document) SetInert(id string, inert bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.layers {
		if l.ID == id {
			l.Inert = inert
			return true
		}
	}
	return false
}

// Layer returns a copy of the layer with the given ID
func (d *Document) Layer(id string) (Layer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.layers {
		if l.ID == id {
			return *l, true
		}
	}
	return Layer{}, false
}

// Layers returns a snapshot of all layers in order
func (d *Document) Layers() []Layer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Layer, len(d.layers))
	for i, l := range d.layers {
		out[i] = *l
	}
	return out
}

// LastID returns the ID of the last layer, or "" if the document is empty
func (d *Document) LastID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.layers) == 0 {
		return ""
	}
	return d.layers[len(d.layers)-1].ID
}
