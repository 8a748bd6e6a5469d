package capture

import (
	"fmt"

	"github.com/chromedp/chromedp"
)

// storyPauseIconPath is the SVG path of the story player's pause icon.
// Its presence identifies the pause control; the enclosing role=button
// div is the click target.
const storyPauseIconPath = "M15 1c-3.3 0-6 1.3-6 3v40c0 1.7 2.7 3 6 3s6-1.3 6-3V4c0-1.7-2.7-3-6-3zm18 0c-3.3 0-6 1.3-6 3v40c0 1.7 2.7 3 6 3s6-1.3 6-3V4c0-1.7-2.7-3-6-3z"

// PauseStories clicks the story pause control when present, so the
// progress indicators hold still while the page is serialized. It
// reports whether a control was clicked.
func (s *Session) PauseStories() (bool, error) {
	js := fmt.Sprintf(`(function () {
  var paths = document.querySelectorAll('svg path');
  for (var i = 0; i < paths.length; i++) {
    if (paths[i].getAttribute('d') === %q) {
      var button = paths[i].closest('div[role="button"]');
      if (button) {
        button.click();
        return true;
      }
    }
  }
  return false;
})()`, storyPauseIconPath)

	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return false, err
	}
	if clicked {
		s.logger.Debug("paused story playback")
	}
	return clicked, nil
}
