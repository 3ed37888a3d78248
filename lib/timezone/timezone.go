package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
}

// force the timezone to Paris regardless of where the server runs,
// the listing sites and their sellers are French and date arithmetic
// on <time.Time>.Year()/Month()/Day() must agree with them
func Now() time.Time {
	return time.Now().In(Location)
}
