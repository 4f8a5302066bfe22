package fees

import (
	"math"
	"time"

	"github.com/mkamau27/school_admin/models"
)

// Settings is the slice of a class's configuration the fee logic needs.
type Settings struct {
	BaseFee       float64
	LateFeePerDay float64
	FeeDueDate    *time.Time
	Frequency     string
}

// SettingsFromClass extracts and normalizes a class's fee settings. Handlers
// call this once at the ingestion boundary instead of re-defaulting fields
// inline.
func SettingsFromClass(class models.Class) Settings {
	return NormalizeSettings(Settings{
		BaseFee:       class.BaseFee,
		LateFeePerDay: class.LateFeePerDay,
		FeeDueDate:    class.FeeDueDate,
		Frequency:     class.FeeFrequency,
	})
}

// NormalizeSettings clamps unusable numeric values to zero and defaults the
// frequency to monthly, so a genuine zero and a missing value are decided in
// exactly one place.
func NormalizeSettings(s Settings) Settings {
	if math.IsNaN(s.BaseFee) || math.IsInf(s.BaseFee, 0) || s.BaseFee < 0 {
		s.BaseFee = 0
	}
	if math.IsNaN(s.LateFeePerDay) || math.IsInf(s.LateFeePerDay, 0) || s.LateFeePerDay < 0 {
		s.LateFeePerDay = 0
	}
	if _, ok := cycleDivisors[s.Frequency]; !ok {
		s.Frequency = models.FrequencyMonthly
	}
	return s
}
