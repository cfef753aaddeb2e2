package model

import "time"

// Typed property values carried in ExternalRecord.Properties and in the
// payloads the field mapper hands to provider clients. The engines and
// the mapper stay provider-neutral; each client decides how a value maps
// onto its native property kinds (rich text, select, date, people).

// Title is the record's display name property value, for providers that
// model the title as a distinct property kind
type Title string

// Text is a free-form text property value
type Text string

// Select is a single-choice property value (status, priority)
type Select string

// Date is a date property value
type Date time.Time

// Person is an external user identifier property value
type Person string

// AsString flattens a property value to its plain string form, empty for
// absent or non-string values.
func AsString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Title:
		return string(t)
	case Text:
		return string(t)
	case Select:
		return string(t)
	case Person:
		return string(t)
	default:
		return ""
	}
}

// AsTime extracts a time from a property value, if it is one.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case Date:
		return time.Time(t), true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
