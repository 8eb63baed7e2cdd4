package calendar

import "time"

const DefaultWeeklyOff = "FREQ=WEEKLY;BYDAY=SA,SU"

type Holiday struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

type WeeklyOff struct {
	Rule string `json:"rule"`
}
