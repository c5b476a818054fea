package cmd

import (
	"fmt"
	"strconv"
)

// parseID parses a positive numeric id argument.
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: must be a positive number", kind, arg)
	}
	return id, nil
}
