package pov

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSpec = errors.New("invalid pov spec")

// Parse builds a POV from its name: global, global_absolute, local_R,
// local_xray_R, forward_L, forward_L_W, forward_xray_L or forward_xray_L_W.
func Parse(spec string, width, height int) (POV, error) {
	parts := strings.Split(strings.TrimSpace(strings.ToLower(spec)), "_")
	xray := false
	if len(parts) > 1 && parts[1] == "xray" {
		xray = true
		parts = append(parts[:1:1], parts[2:]...)
	}
	if parts[0] == "global" && !xray {
		switch {
		case len(parts) == 1:
			return NewGlobal(width, height), nil
		case len(parts) == 2 && parts[1] == "absolute":
			return NewGlobalAbsolute(width, height), nil
		}
		return nil, fmt.Errorf("%w %q", ErrInvalidSpec, spec)
	}
	nums, err := atoiAll(parts[1:])
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSpec, spec, err)
	}

	switch {
	case parts[0] == "local" && len(nums) == 1 && nums[0] >= 0:
		return NewLocal(nums[0], xray), nil
	case parts[0] == "forward" && len(nums) == 1 && nums[0] > 0:
		return NewForward(nums[0], 1, xray), nil
	case parts[0] == "forward" && len(nums) == 2 && nums[0] > 0 && nums[1] > 0 && nums[1]%2 == 1:
		return NewForward(nums[0], nums[1], xray), nil
	}
	return nil, fmt.Errorf("%w %q", ErrInvalidSpec, spec)
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
