package state

import (
	"github.com/kk-code-lab/vimview/internal/apperr"
)

// applyView handles the presentation toggles. None of them touch the disk.
func (e *Engine) applyView(action Action) {
	s := e.state
	if s.Listing == nil {
		return
	}

	switch action.(type) {
	case ZoomInAction:
		s.View.Zoom = clampZoom(currentZoom(s.View) * zoomStep)
	case ZoomOutAction:
		s.View.Zoom = clampZoom(currentZoom(s.View) / zoomStep)
	case ZoomRealAction:
		s.View.Zoom = 1.0
	case RotateLeftAction:
		s.View.Rotation = (s.View.Rotation + 270) % 360
	case RotateRightAction:
		s.View.Rotation = (s.View.Rotation + 90) % 360
	case ToggleFilmstripAction:
		s.ShowFilmstrip = !s.ShowFilmstrip
	case FullscreenAction:
		s.Fullscreen = !s.Fullscreen
	case ShowKeysAction:
		s.ShowHelp = !s.ShowHelp
	case HideKeysAction:
		s.ShowHelp = false
	}
}

// toggleFilename flips the filename banner and writes the choice back to the
// config file.
func (e *Engine) toggleFilename() error {
	s := e.state
	s.ShowFilename = !s.ShowFilename
	e.cfg.Settings.ShowFilename = s.ShowFilename

	if e.saveConfig != nil {
		if err := e.saveConfig(e.cfg); err != nil {
			return apperr.New(apperr.Config, "save config", nil, "", err)
		}
	}
	if s.ShowFilename {
		s.setNotice("filename overlay: on")
	} else {
		s.setNotice("filename overlay: off")
	}
	return nil
}

func currentZoom(v ViewState) float64 {
	if v.Fit() {
		return 1.0
	}
	return v.Zoom
}

func clampZoom(z float64) float64 {
	switch {
	case z < minZoom:
		return minZoom
	case z > maxZoom:
		return maxZoom
	default:
		return z
	}
}
