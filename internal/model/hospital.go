package model

import "time"

// Hospital is the location doctors and staff work out of and where a patient
// goes for an appointment. Open and close times are stored as "HH:MM" strings
// in the hospital's own timezone (an IANA zone name such as
// "America/New_York").
type Hospital struct {
	ID        uint64    // hospitals.id
	Name      string    // hospitals.name
	Address   string    // hospitals.address
	Timezone  string    // hospitals.timezone (IANA zone name)
	OpenTime  string    // hospitals.open_time ("HH:MM")
	CloseTime string    // hospitals.close_time ("HH:MM")
	CreatedAt time.Time // hospitals.created_at
}
