package types

import (
	"strconv"
	"strings"
)

const locationWant = `"slot/port" or "frame/slot/port"`

// ParseFrameSlotPort parses an ONU location string. Two shapes are
// accepted: "slot/port" (frame defaults to 0) and "frame/slot/port".
// Anything else is a FormatError.
func ParseFrameSlotPort(s string) (frame, slot, port int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, &FormatError{Input: s, Want: locationWant}
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil {
			return 0, 0, 0, &FormatError{Input: s, Want: locationWant}
		}
		nums[i] = n
	}

	if len(nums) == 2 {
		return 0, nums[0], nums[1], nil
	}
	return nums[0], nums[1], nums[2], nil
}

// FormatFrameSlotPort is the inverse of ParseFrameSlotPort, always in
// the three-part shape.
func FormatFrameSlotPort(frame, slot, port int) string {
	return strconv.Itoa(frame) + "/" + strconv.Itoa(slot) + "/" + strconv.Itoa(port)
}
