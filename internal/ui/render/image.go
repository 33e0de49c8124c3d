package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/imaging"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// upperHalf shows the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

// drawImage paints the current image into the area using half blocks, two
// pixels per cell. Neighbours are decoded in the background meanwhile.
func (r *Renderer) drawImage(state *statepkg.ViewerState, x0, y0, cols, rows int) {
	r.meta = imaging.Meta{}
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.DimFg)

	cur := state.Current()
	if cur == nil {
		r.drawCentered(x0, cols, y0+rows/2, "no matching images", base)
		return
	}
	if r.images == nil {
		return
	}

	frame, meta, err := r.images.Frame(cur.Path, cols, rows, state.View.Zoom, state.View.Rotation)
	r.meta = meta
	if err != nil || frame == nil {
		r.drawCentered(x0, cols, y0+rows/2, "cannot display "+sanitize(cur.Name), base)
		return
	}

	for row := 0; row < frame.Rows; row++ {
		for col := 0; col < frame.Cols; col++ {
			top := frame.Top(col, row)
			bottom := frame.Bottom(col, row)
			if top.A == 0 && bottom.A == 0 {
				continue
			}
			style := tcell.StyleDefault.
				Foreground(r.theme.pixelColor(top)).
				Background(r.theme.pixelColor(bottom))
			r.screen.SetContent(x0+col, y0+row, upperHalf, nil, style)
		}
	}

	r.prefetchNeighbours(state)
}

func (r *Renderer) prefetchNeighbours(state *statepkg.ViewerState) {
	matches := state.Entries()
	var paths []string
	if state.Index+1 < len(matches) {
		paths = append(paths, matches[state.Index+1].Path)
	}
	if state.Index-1 >= 0 && state.Index-1 < len(matches) {
		paths = append(paths, matches[state.Index-1].Path)
	}
	r.images.Prefetch(paths...)
}
