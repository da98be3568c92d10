// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

// Field selects one value of a DisplayRow through Model.Data.
type Field int

const (
	FieldEventType Field = iota
	FieldEventID
	FieldTime
	FieldDate
	FieldAuthor
	FieldContent
	FieldContentType
	FieldHighlight
	FieldDecoration
	FieldSource
	FieldNewTime
	FieldNewUser
)

var fieldNames = map[Field]string{
	FieldEventType:   "eventType",
	FieldEventID:     "eventId",
	FieldTime:        "time",
	FieldDate:        "date",
	FieldAuthor:      "author",
	FieldContent:     "content",
	FieldContentType: "contentType",
	FieldHighlight:   "highlight",
	FieldDecoration:  "decoration",
	FieldSource:      "source",
	FieldNewTime:     "newTime",
	FieldNewUser:     "newUser",
}

// FieldNames returns the external name of every field, for
// presentation layers that bind fields by name.
func FieldNames() map[Field]string {
	names := make(map[Field]string, len(fieldNames))
	for field, name := range fieldNames {
		names[field] = name
	}
	return names
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Value returns the value of field, or nil for an unknown field. Types:
// string for eventType, author, content, contentType, decoration and
// source; ref.EventID for eventId; time.Time for time and date; bool
// for highlight, newTime and newUser.
func (row DisplayRow) Value(field Field) any {
	switch field {
	case FieldEventType:
		return row.EventType
	case FieldEventID:
		return row.EventID
	case FieldTime:
		return row.Time
	case FieldDate:
		return row.Date
	case FieldAuthor:
		return row.Author
	case FieldContent:
		return row.Content
	case FieldContentType:
		return row.ContentType
	case FieldHighlight:
		return row.Highlight
	case FieldDecoration:
		return row.Decoration
	case FieldSource:
		return row.Source
	case FieldNewTime:
		return row.IsNewTimeGroup
	case FieldNewUser:
		return row.IsNewAuthorGroup
	}
	return nil
}
