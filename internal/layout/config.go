package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// Config is the plain serializable form of an item subtree. It carries no
// live references and is the wire format handed between surfaces when an
// item is detached or reattached.
type Config struct {
	Type           ItemType `toml:"type" json:"type"`
	ID             string   `toml:"id,omitempty" json:"id,omitempty"`
	Title          string   `toml:"title,omitempty" json:"title,omitempty"`
	Component      string   `toml:"component,omitempty" json:"component,omitempty"`
	SizeHint       float64  `toml:"size_hint,omitempty" json:"size_hint,omitempty"`
	ReorderEnabled *bool    `toml:"reorder_enabled,omitempty" json:"reorder_enabled,omitempty"`
	ActiveIndex    int      `toml:"active_index,omitempty" json:"active_index,omitempty"`
	Children       []Config `toml:"children,omitempty" json:"children,omitempty"`
}

// Placement records a detached surface's requested content-box geometry in
// screen cells.
type Placement struct {
	Left   int `toml:"left" json:"left"`
	Top    int `toml:"top" json:"top"`
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// PopoutConfig is everything needed to reconstruct one detached surface:
// the subtree it renders, where its content box goes, and the identity of
// the container the content came from so pop-in can put it back.
type PopoutConfig struct {
	Root      Config    `toml:"root" json:"root"`
	Placement Placement `toml:"placement" json:"placement"`
	ParentID  string    `toml:"parent_id,omitempty" json:"parent_id,omitempty"`
}

// DeskConfig is a whole saved desk: the primary tree plus every open popout.
type DeskConfig struct {
	Root    Config         `toml:"root" json:"root"`
	Popouts []PopoutConfig `toml:"popouts,omitempty" json:"popouts,omitempty"`
}

// Clone deep-copies the config. Subtrees crossing a surface boundary are
// always cloned because the source graph belongs to a context that may be
// torn down immediately afterward.
func (c Config) Clone() Config {
	out := c
	if len(c.Children) > 0 {
		out.Children = make([]Config, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}
	if c.ReorderEnabled != nil {
		v := *c.ReorderEnabled
		out.ReorderEnabled = &v
	}
	return out
}

func (c Config) isLeaf() bool { return c.Type == ItemComponent }

// ComponentCount returns the number of component leaves in the subtree.
func (c Config) ComponentCount() int {
	if c.isLeaf() {
		return 1
	}
	n := 0
	for _, child := range c.Children {
		n += child.ComponentCount()
	}
	return n
}

// ItemToConfig serializes a subtree. The result shares nothing with the
// source items.
func ItemToConfig(it *Item) Config {
	reorder := it.ReorderEnabled
	cfg := Config{
		Type:           it.Type,
		ID:             it.ID,
		Title:          it.Title,
		Component:      it.Component,
		SizeHint:       it.SizeHint,
		ReorderEnabled: &reorder,
		ActiveIndex:    it.ActiveIndex,
	}
	for _, child := range it.children {
		cfg.Children = append(cfg.Children, ItemToConfig(child))
	}
	return cfg
}

// BuildItem constructs a detached subtree from its wire form. Missing IDs
// are minted so every item stays addressable. An unknown type tag is a
// programming error in whatever produced the config and panics.
func BuildItem(cfg Config) *Item {
	switch cfg.Type {
	case ItemGround, ItemRow, ItemColumn, ItemStack, ItemComponent:
	default:
		panic(fmt.Sprintf("layout: unknown item type %q", cfg.Type))
	}
	it := &Item{
		ID:             cfg.ID,
		Type:           cfg.Type,
		Title:          cfg.Title,
		Component:      cfg.Component,
		SizeHint:       cfg.SizeHint,
		ReorderEnabled: true,
		ActiveIndex:    cfg.ActiveIndex,
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if cfg.ReorderEnabled != nil {
		it.ReorderEnabled = *cfg.ReorderEnabled
	}
	for _, childCfg := range cfg.Children {
		child := BuildItem(childCfg)
		it.attach(child, len(it.children))
	}
	if it.Type == ItemStack && (it.ActiveIndex < 0 || it.ActiveIndex >= len(it.children)) {
		it.ActiveIndex = 0
	}
	return it
}
