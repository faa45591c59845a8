package appearance

import (
    "sort"
    "strings"
    "sync"
)

// Document is the set of style classes on the page root.
type Document struct {
    mu        sync.Mutex
    classes   map[string]struct{}
    mutations int
}

// NewDocument returns a root with no classes.
func NewDocument() *Document {
    return &Document{classes: make(map[string]struct{})}
}

// Toggle adds class when on is true and removes it otherwise.
func (d *Document) Toggle(class string, on bool) {
    d.mu.Lock()
    defer d.mu.Unlock()
    _, has := d.classes[class]
    if has == on {
        return
    }
    if on {
        d.classes[class] = struct{}{}
    } else {
        delete(d.classes, class)
    }
    d.mutations++
}

// Has reports whether class is present.
func (d *Document) Has(class string) bool {
    d.mu.Lock()
    defer d.mu.Unlock()
    _, ok := d.classes[class]
    return ok
}

// Classes returns the classes sorted by name.
func (d *Document) Classes() []string {
    d.mu.Lock()
    defer d.mu.Unlock()
    out := make([]string, 0, len(d.classes))
    for c := range d.classes {
        out = append(out, c)
    }
    sort.Strings(out)
    return out
}

// ClassAttr joins the classes for an HTML class attribute.
func (d *Document) ClassAttr() string {
    return strings.Join(d.Classes(), " ")
}

// Mutations counts effective class changes.
func (d *Document) Mutations() int {
    d.mu.Lock()
    defer d.mu.Unlock()
    return d.mutations
}
