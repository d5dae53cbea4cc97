package membership

// Activity classification values for current members.
const (
	ClassActive  = "active"
	ClassPassive = "passive"
)

// DefaultActivityHoursThreshold is the hours of recognized activity a
// registered member needs to be classified active.
const DefaultActivityHoursThreshold = 20

// Classify returns the activity classification for the given accumulated
// minutes against a threshold in hours. Negative minutes count as zero.
// Callers must classify former members with minutes forced to zero;
// activity status is only meaningful for current members.
func Classify(activityMinutes int, thresholdHours int) string {
	if activityMinutes < 0 {
		activityMinutes = 0
	}
	if float64(activityMinutes)/60.0 >= float64(thresholdHours) {
		return ClassActive
	}
	return ClassPassive
}
