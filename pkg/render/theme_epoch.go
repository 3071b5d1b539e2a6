package render

import "gitlab.com/tinyland/lab/xeno/pkg/theme"

// HighlightStyleCache caches syntax-highlight-group-to-CellStyle
// resolution, invalidated wholesale whenever theme.Epoch() advances.
type HighlightStyleCache struct {
	epoch uint64
	styles map[string]CellStyle
}

// NewHighlightStyleCache creates an empty cache at the current theme
// epoch.
func NewHighlightStyleCache() *HighlightStyleCache {
	return &HighlightStyleCache{epoch: theme.Epoch(), styles: make(map[string]CellStyle)}
}

// Resolve returns the cached CellStyle for group, recomputing via
// resolve and repopulating the whole cache if the theme has changed
// since it was last populated.
func (c *HighlightStyleCache) Resolve(group string, resolve func(string) CellStyle) CellStyle {
	if cur := theme.Epoch(); cur != c.epoch {
		c.epoch = cur
		c.styles = make(map[string]CellStyle)
	}
	if s, ok := c.styles[group]; ok {
		return s
	}
	s := resolve(group)
	c.styles[group] = s
	return s
}

// Len reports how many highlight groups are currently cached.
func (c *HighlightStyleCache) Len() int { return len(c.styles) }
