// Package appearance models the host colour-scheme preference, the style
// classes on the document root and the explicit dark-mode toggle.
package appearance

import "sync"

// DarkClass is the root class that switches the page to its dark palette.
const DarkClass = "dark"

// Preference holds the host's "prefers dark" signal and notifies subscribers
// when it changes.
type Preference struct {
    mu   sync.Mutex
    dark bool
    subs map[int]func(bool)
    next int
}

// NewPreference creates a preference with an initial value.
func NewPreference(dark bool) *Preference {
    return &Preference{dark: dark}
}

// Dark returns the current value.
func (p *Preference) Dark() bool {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.dark
}

// Set stores a new value and notifies subscribers when it differs.
func (p *Preference) Set(dark bool) bool {
    p.mu.Lock()
    if p.dark == dark {
        p.mu.Unlock()
        return false
    }
    p.dark = dark
    fns := make([]func(bool), 0, len(p.subs))
    for _, fn := range p.subs {
        fns = append(fns, fn)
    }
    p.mu.Unlock()

    for _, fn := range fns {
        fn(dark)
    }
    return true
}

// Subscribe registers fn for change notifications.  The returned func
// removes it and is safe to call more than once.
func (p *Preference) Subscribe(fn func(dark bool)) func() {
    if p == nil || fn == nil {
        return func() {}
    }
    p.mu.Lock()
    if p.subs == nil {
        p.subs = make(map[int]func(bool))
    }
    id := p.next
    p.next++
    p.subs[id] = fn
    p.mu.Unlock()

    var once sync.Once
    return func() {
        once.Do(func() {
            p.mu.Lock()
            delete(p.subs, id)
            p.mu.Unlock()
        })
    }
}

// Subscribers reports how many listeners are registered.
func (p *Preference) Subscribers() int {
    p.mu.Lock()
    defer p.mu.Unlock()
    return len(p.subs)
}
