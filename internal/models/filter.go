package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var scholarNumberPattern = regexp.MustCompile(`^\d{10}$`)

// rawFilter mirrors the JSON blob clients send in the `filters` query
// parameter. All fields are optional.
type rawFilter struct {
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	ComplaintType  string   `json:"complaintType"`
	Status         string   `json:"status"`
	ReadStatus     string   `json:"readStatus"`
	HostelNumber   string   `json:"hostelNumber"`
	ScholarNumbers []string `json:"scholarNumbers"`
}

// Filter is the validated, typed form of a client filter request.
type Filter struct {
	Start          time.Time
	End            time.Time
	ComplaintType  string
	Status         string
	ReadStatus     string
	HostelNumber   string
	ScholarNumbers []string
}

// ParseFilter normalizes a raw `filters` query parameter. It is a pure
// function of its inputs: `now` is the caller's request time, used as the
// default end of the date range.
//
// Scholar numbers that do not match the 10-digit shape are dropped, not
// rejected.
func ParseFilter(raw string, now time.Time) (Filter, error) {
	if raw == "" {
		raw = "{}"
	}

	var rf rawFilter
	if err := json.Unmarshal([]byte(raw), &rf); err != nil {
		return Filter{}, fmt.Errorf("%w: malformed filters", ErrValidation)
	}

	start, err := parseDate(rf.StartDate, time.Unix(0, 0).UTC())
	if err != nil {
		return Filter{}, err
	}
	end, err := parseDate(rf.EndDate, now)
	if err != nil {
		return Filter{}, err
	}
	if start.After(end) {
		return Filter{}, ErrDateRange
	}

	scholars := make([]string, 0, len(rf.ScholarNumbers))
	for _, num := range rf.ScholarNumbers {
		if scholarNumberPattern.MatchString(num) {
			scholars = append(scholars, num)
		}
	}

	return Filter{
		Start:          start,
		End:            end,
		ComplaintType:  rf.ComplaintType,
		Status:         rf.Status,
		ReadStatus:     rf.ReadStatus,
		HostelNumber:   rf.HostelNumber,
		ScholarNumbers: scholars,
	}, nil
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}

// ParseLimit reads the client-requested page size, applying the default and
// the hard ceiling.
func ParseLimit(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return DefaultPageLimit
	}
	if n > MaxPageLimit {
		return MaxPageLimit
	}
	return n
}
