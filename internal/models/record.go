package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Record is one result row returned by the records backend
type Record struct {
	ID              string `json:"id"`
	OriginationTime int64  `json:"originationTime"` // epoch seconds
	ClusterID       string `json:"clusterId"`
	UserID          string `json:"userId"`
	Phone           string `json:"phone"`
	Voicemail       string `json:"voicemail"`
}

// Row returns the display cells in table column order.
// Values are rendered verbatim, origination time as the integer received.
func (r Record) Row() []string {
	return []string{
		r.ID,
		strconv.FormatInt(r.OriginationTime, 10),
		r.ClusterID,
		r.UserID,
		r.Phone,
		r.Voicemail,
	}
}

// RecordColumnTitles are the column headers for a record table
var RecordColumnTitles = []string{"ID", "Origination Time", "Cluster ID", "User ID", "Phone", "Voicemail"}

// FilterField selects which record attribute, if any, narrows a search
type FilterField string

const (
	FilterNone      FilterField = "none"
	FilterPhone     FilterField = "phone"
	FilterVoicemail FilterField = "voicemail"
	FilterUserID    FilterField = "userId"
	FilterClusterID FilterField = "clusterId"
)

// FilterFields returns every filter field in selector order
func FilterFields() []FilterField {
	return []FilterField{FilterNone, FilterClusterID, FilterUserID, FilterPhone, FilterVoicemail}
}

// Label returns the human-readable name shown in selectors
func (f FilterField) Label() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterPhone:
		return "Phone"
	case FilterVoicemail:
		return "Voicemail"
	case FilterUserID:
		return "User ID"
	case FilterClusterID:
		return "Cluster ID"
	}
	return string(f)
}

// Valid reports whether f is one of the known filter fields
func (f FilterField) Valid() bool {
	for _, known := range FilterFields() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFilterField parses a wire name case-insensitively.
// An empty string maps to FilterNone.
func ParseFilterField(s string) (FilterField, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FilterNone, nil
	}
	for _, f := range FilterFields() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return FilterNone, fmt.Errorf("unknown filter field %q", s)
}

// Query is a committed, validated search request.
// Only the search form constructs a Query, after validation passes.
type Query struct {
	StartEpoch  int64
	EndEpoch    int64
	FilterField FilterField
	FilterValue string
}

// HasFilter reports whether the query narrows by a record attribute
func (q Query) HasFilter() bool {
	return q.FilterField != "" && q.FilterField != FilterNone
}

// Normalize maps an empty filter field to none and drops the filter value when unused
func (q Query) Normalize() Query {
	if !q.HasFilter() {
		q.FilterField = FilterNone
		q.FilterValue = ""
	}
	return q
}

// Equal compares all four query fields after normalization
func (q Query) Equal(other Query) bool {
	return q.Normalize() == other.Normalize()
}

// Path builds the backend request path for the query.
// The filter value is escaped as a single path segment.
func (q Query) Path() string {
	path := fmt.Sprintf("/mssql/records/%d/%d", q.StartEpoch, q.EndEpoch)
	if q.HasFilter() {
		path += "/" + string(q.FilterField) + "/" + url.PathEscape(q.FilterValue)
	}
	return path
}

// String returns a one-line description for logs and headers
func (q Query) String() string {
	s := fmt.Sprintf("%d..%d", q.StartEpoch, q.EndEpoch)
	if q.HasFilter() {
		s += fmt.Sprintf(" %s=%s", q.FilterField, q.FilterValue)
	}
	return s
}
