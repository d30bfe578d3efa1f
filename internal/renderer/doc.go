// Package renderer paints a virtualized paragraph window onto a grid of
// character cells.
//
// The renderer is responsible for:
//   - Drawing the visible rows with their style spans
//   - Side decorations such as the line-number gutter
//   - Selection and current paragraph backgrounds
//   - The vertical scroll bar and the terminal cursor
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (painter)            │
//	├─────────────────────────────────────────┤
//	│  viewport.Window │ gutter │ highlight   │
//	├─────────────────────────────────────────┤
//	│   arrangement │ rowcache │ row/layout   │
//	├─────────────────────────────────────────┤
//	│      Surface (backend.Terminal)         │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(win, row.DefaultMetrics(), renderer.DefaultTheme())
//	r.Draw(term)
//	term.Show()
package renderer
