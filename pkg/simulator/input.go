package simulator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

// Tap clicks at host pixel coordinates with cliclick.
func (s *Simulator) Tap(ctx context.Context, x, y int) error {
	logger.Debug("cliclick tap at (%d, %d)", x, y)
	if _, err := s.run(ctx, "cliclick", clickArg("c", x, y)); err != nil {
		return fmt.Errorf("tap failed: %w", err)
	}
	return nil
}

// Swipe drags between host pixel coordinates with cliclick.
func (s *Simulator) Swipe(ctx context.Context, x1, y1, x2, y2 int) error {
	logger.Debug("cliclick drag (%d, %d) -> (%d, %d)", x1, y1, x2, y2)
	if _, err := s.run(ctx, "cliclick", clickArg("dd", x1, y1), clickArg("du", x2, y2)); err != nil {
		return fmt.Errorf("swipe failed: %w", err)
	}
	return nil
}

// clickArg formats a cliclick command. Negative values need an "="
// prefix or cliclick reads them as relative offsets.
func clickArg(cmd string, x, y int) string {
	return cmd + ":" + coord(x) + "," + coord(y)
}

func coord(v int) string {
	if v < 0 {
		return "=" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
