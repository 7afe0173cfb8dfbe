// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelEntry describes one locally installed model. The metadata beyond
// the name is carried for display only and never interpreted here.
type ModelEntry struct {
	Name              string
	Size              int64
	Digest            string
	Family            string
	ParameterSize     string
	QuantizationLevel string
}

// Catalog holds the ordered list of available models and a single
// selection cursor over them. The list is replaced wholesale on reload,
// never mutated element-wise. The selection index, when present, is
// always a valid index; navigation wraps around at both ends.
type Catalog struct {
	models   []ModelEntry
	selected int // index into models, -1 when nothing is highlighted
	active   *ModelEntry
}

// NewCatalog returns an empty catalog with no selection.
func NewCatalog() *Catalog {
	return &Catalog{selected: -1}
}

// ReplaceAll swaps in a new model list and resets the selection cursor.
// The confirmed active model, if any, is kept: it was frozen at confirm
// time and stays usable even if the reloaded list no longer contains it.
func (c *Catalog) ReplaceAll(models []ModelEntry) {
	c.models = models
	c.selected = -1
}

// SelectNext moves the highlight down one entry, wrapping from the last
// entry to the first. With no current highlight it selects the first
// entry. No-op on an empty catalog.
func (c *Catalog) SelectNext() {
	if len(c.models) == 0 {
		return
	}
	if c.selected < 0 {
		c.selected = 0
		return
	}
	c.selected = (c.selected + 1) % len(c.models)
}

// SelectPrevious moves the highlight up one entry, wrapping from the
// first entry to the last. With no current highlight it selects the last
// entry. No-op on an empty catalog.
func (c *Catalog) SelectPrevious() {
	if len(c.models) == 0 {
		return
	}
	if c.selected < 0 {
		c.selected = len(c.models) - 1
		return
	}
	c.selected = (c.selected - 1 + len(c.models)) % len(c.models)
}

// CurrentSelection returns the highlighted model, if any.
func (c *Catalog) CurrentSelection() (ModelEntry, bool) {
	if c.selected < 0 || c.selected >= len(c.models) {
		return ModelEntry{}, false
	}
	return c.models[c.selected], true
}

// ConfirmSelection freezes the highlighted model as the session's active
// model. No-op when nothing is highlighted.
func (c *Catalog) ConfirmSelection() {
	if m, ok := c.CurrentSelection(); ok {
		frozen := m
		c.active = &frozen
	}
}

// ActiveModel returns the confirmed model for the session, if one has
// been confirmed.
func (c *Catalog) ActiveModel() (ModelEntry, bool) {
	if c.active == nil {
		return ModelEntry{}, false
	}
	return *c.active, true
}

// SelectedIndex returns the highlight index, or -1 when nothing is
// highlighted.
func (c *Catalog) SelectedIndex() int {
	return c.selected
}

// Models returns the current model list in load order.
func (c *Catalog) Models() []ModelEntry {
	return c.models
}

// Len returns the number of models in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}
