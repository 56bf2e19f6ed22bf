package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// parseRange parses "start:end" rune offsets. A single number is a cursor.
func parseRange(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	startStr, endStr, found := strings.Cut(s, ":")
	if !found {
		endStr = startStr
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("invalid range %q (use start:end)", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil || end < 0 {
		return 0, 0, fmt.Errorf("invalid range %q (use start:end)", s)
	}
	if end < start {
		start, end = end, start
	}
	return start, end, nil
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
