package simulator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/geometry"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

const activateScript = `tell application "Simulator" to activate`

// windowScript prints the front Simulator window frame as "x,y,w,h".
const windowScript = `
tell application "System Events"
    tell process "Simulator"
        set frontWin to front window
        set winPos to position of frontWin
        set winSize to size of frontWin
        return (item 1 of winPos as text) & "," & (item 2 of winPos as text) & "," & (item 1 of winSize as text) & "," & (item 2 of winSize as text)
    end tell
end tell
`

// activateDelay gives the window server time to raise the window.
var activateDelay = 200 * time.Millisecond

// Window brings Simulator to the front and returns its window frame.
func (s *Simulator) Window(ctx context.Context) (geometry.WindowGeometry, error) {
	if _, err := s.run(ctx, "osascript", "-e", activateScript); err != nil {
		logger.Debug("Failed to activate Simulator: %v", err)
	}

	select {
	case <-time.After(activateDelay):
	case <-ctx.Done():
		return geometry.WindowGeometry{}, ctx.Err()
	}

	out, err := s.run(ctx, "osascript", "-e", windowScript)
	if err != nil {
		return geometry.WindowGeometry{}, core.NewExecutionError(core.ErrCategoryConnection, "window_unavailable",
			"AppleScript failed - accessibility permissions may be required").WithCause(err)
	}
	return ParseWindowInfo(string(out))
}

// ParseWindowInfo parses the "x,y,w,h" line printed by the window script.
func ParseWindowInfo(s string) (geometry.WindowGeometry, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return geometry.WindowGeometry{}, fmt.Errorf("failed to parse window info %q", strings.TrimSpace(s))
	}

	var v [4]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return geometry.WindowGeometry{}, fmt.Errorf("failed to parse window info %q: %w", strings.TrimSpace(s), err)
		}
		v[i] = int32(n)
	}
	return geometry.WindowGeometry{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
