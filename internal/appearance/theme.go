package appearance

import "sync"

// ThemeToggle is the user-facing dark-mode switch.  It starts in light mode.
type ThemeToggle struct {
    mu   sync.Mutex
    dark bool
    doc  *Document
}

// NewThemeToggle binds a toggle to the document root it styles.
func NewThemeToggle(doc *Document) *ThemeToggle {
    return &ThemeToggle{doc: doc}
}

// IsDark reports the toggle position.
func (t *ThemeToggle) IsDark() bool {
    t.mu.Lock()
    defer t.mu.Unlock()
    return t.dark
}

// Toggle flips the mode and applies it to the document root.
func (t *ThemeToggle) Toggle() bool {
    t.mu.Lock()
    t.dark = !t.dark
    dark := t.dark
    t.mu.Unlock()
    t.doc.Toggle(DarkClass, dark)
    return dark
}

// Sync aligns the toggle with a value applied from elsewhere, such as the
// host preference, without touching the document.
func (t *ThemeToggle) Sync(dark bool) {
    t.mu.Lock()
    t.dark = dark
    t.mu.Unlock()
}
