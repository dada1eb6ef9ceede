package windowlist

import (
	"time"

	"wprefix/internal/bitmap"
	gerrors "wprefix/internal/infrastructure/errors"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/platform"
)

// IconSource resolves the icon shown for an owner window. The returned bitmap
// carries a reference owned by the caller.
type IconSource interface {
	Icon(window platform.Handle) *bitmap.Bitmap
}

// candidate is a window considered during one enumeration pass. Owner is the
// window it represents; only kept candidates become entries.
type candidate struct {
	window platform.Handle
	owner  platform.Handle
	keep   bool
}

// Enumerator turns the OS top-level windows into one entry per application.
type Enumerator struct {
	api    platform.WindowAPI
	icons  IconSource
	logger logging.Logger
}

// NewEnumerator creates an enumerator backed by api and icons.
func NewEnumerator(api platform.WindowAPI, icons IconSource, logger logging.Logger) *Enumerator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Enumerator{api: api, icons: icons, logger: logger}
}

// Build enumerates the visible top-level windows and returns a fresh list,
// entries in enumeration order of the surviving candidates.
func (e *Enumerator) Build() (*List, error) {
	start := time.Now()

	candidates, err := e.candidates()
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	for _, c := range candidates {
		if !c.keep {
			continue
		}
		entries = append(entries, e.entry(c))
	}

	logging.LogOperation(e.logger, "windowlist.build", time.Since(start), map[string]interface{}{
		"candidates": len(candidates),
		"entries":    len(entries),
	})
	return NewList(entries), nil
}

// candidates runs the per-window deduplication over one enumeration. The
// slice is kept in enumeration order; lookups scan it from the most recently
// added candidate backwards.
func (e *Enumerator) candidates() ([]*candidate, error) {
	var candidates []*candidate

	err := e.api.EnumWindows(func(window platform.Handle) bool {
		if !e.api.IsVisible(window) {
			return true
		}
		if c := e.consider(candidates, window); c != nil {
			candidates = append(candidates, c)
		}
		return true
	})
	if err != nil {
		return nil, gerrors.Wrap("windowlist.enumerate", err, gerrors.StatusOf(err))
	}
	return candidates, nil
}

// consider applies the ownership rules to one visible window and returns the
// candidate to add, or nil when the window was merged or dropped.
func (e *Enumerator) consider(candidates []*candidate, window platform.Handle) *candidate {
	owner := e.topmostOwner(window)
	savedOwner := owner

	// Application windows always represent themselves, even when owned.
	if window != owner && e.isAppWindow(window) {
		owner = window
	} else if existing := findByOwner(candidates, owner); existing != nil {
		e.merge(existing, window, owner, savedOwner)
		return nil
	}

	if e.isToolWindow(savedOwner) && !e.isAppWindow(window) && (e.isToolWindow(window) || !e.isControlParent(window)) {
		return nil
	}

	return &candidate{
		window: window,
		owner:  owner,
		keep:   e.isToolWindow(savedOwner) || !e.isToolWindow(window),
	}
}

// merge lets a non-tool window take over an existing candidate for the same
// owner. Promotion is refused exactly when consider would have dropped the
// window.
func (e *Enumerator) merge(existing *candidate, window, owner, savedOwner platform.Handle) {
	if e.isToolWindow(window) {
		return
	}

	if !(e.isToolWindow(savedOwner) && !e.isAppWindow(window) && (e.isToolWindow(window) || !e.isControlParent(window))) {
		existing.window = window
		existing.owner = owner
	}
	if !e.isToolWindow(existing.window) {
		existing.keep = true
	}
}

func findByOwner(candidates []*candidate, owner platform.Handle) *candidate {
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].owner == owner {
			return candidates[i]
		}
	}
	return nil
}

// topmostOwner follows the owner chain up to a window without owner. The
// shell window ends the walk, and so does an owner seen twice.
func (e *Enumerator) topmostOwner(window platform.Handle) platform.Handle {
	shell := e.api.ShellWindow()
	seen := map[platform.Handle]bool{window: true}

	owner := window
	for {
		next := e.api.Owner(owner)
		if next == 0 || next == shell || seen[next] {
			return owner
		}
		seen[next] = true
		owner = next
	}
}

func (e *Enumerator) entry(c *candidate) *Entry {
	title, err := e.api.Title(c.window)
	if err != nil || title == "" {
		title, err = e.api.Title(c.owner)
		if err != nil {
			title = ""
		}
	}
	return NewEntry(c.window, title, e.icons.Icon(c.owner))
}

func (e *Enumerator) isToolWindow(window platform.Handle) bool {
	return e.api.ExStyle(window).Has(platform.ExStyleToolWindow)
}

func (e *Enumerator) isAppWindow(window platform.Handle) bool {
	return e.api.ExStyle(window).Has(platform.ExStyleAppWindow)
}

func (e *Enumerator) isControlParent(window platform.Handle) bool {
	return e.api.ExStyle(window).Has(platform.ExStyleControlParent)
}
