package availability

import (
	"fmt"
	"math"

	"github.com/clinicflow/clinic-api/internal/model"
)

// FreeHours computes a professional's total weekly free hours from their flat
// slot list. Only slots tagged free count; busy slots are ignored. A slot with
// a malformed or missing "HH:MM" value contributes zero rather than failing,
// and an empty or nil list yields 0. Overlapping slots are not detected.
func FreeHours(slots []model.AvailabilitySlot) float64 {
	total := 0
	for _, slot := range slots {
		if slot.Type != model.SlotTypeFree {
			continue
		}
		total += slotMinutes(slot)
	}
	hours := float64(total) / 60.0
	return math.Round(hours*10) / 10
}

// slotMinutes returns the slot duration in minutes, or 0 when either bound is
// malformed or the range is inverted.
func slotMinutes(slot model.AvailabilitySlot) int {
	start, ok := Minutes(slot.StartTime)
	if !ok {
		return 0
	}
	end, ok := Minutes(slot.EndTime)
	if !ok {
		return 0
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Minutes converts "HH:MM" to minutes since midnight.
func Minutes(s string) (int, bool) {
	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return 0, false
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
