package enums

import (
	"fmt"
	"strings"
)

var (
	shopStateOn  = []string{"true", "1", "yes", "on"}
	shopStateOff = []string{"false", "0", "no", "off"}
)

// ParseShopState converts a partner-supplied toggle value into a bool. Only a
// fixed vocabulary is accepted; anything else is an error, never a guess.
func ParseShopState(value string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range shopStateOn {
		if candidate == normalized {
			return true, nil
		}
	}
	for _, candidate := range shopStateOff {
		if candidate == normalized {
			return false, nil
		}
	}
	return false, fmt.Errorf("invalid shop state %q", value)
}
