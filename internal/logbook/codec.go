package logbook

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Document is the outcome of decoding one day file.
type Document struct {
	Entries []Entry
	// Skipped lists malformed elements that were left out of Entries.
	Skipped []RecordError
}

// record is the on-disk shape written by Encode.
type record struct {
	ID          string     `yaml:"id"`
	StartTime   time.Time  `yaml:"startTime"`
	EndTime     *time.Time `yaml:"endTime,omitempty"`
	Description string     `yaml:"description"`
}

// rawRecord accepts anything a day file may contain so each element can be
// validated on its own.
type rawRecord struct {
	ID          *string `yaml:"id" validate:"required"`
	StartTime   *string `yaml:"startTime" validate:"required"`
	EndTime     *string `yaml:"endTime"`
	Description *string `yaml:"description" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Encode renders entries as a YAML sequence, one mapping per entry, in order.
// Times are written as RFC 3339 in UTC and strings are quoted whenever YAML
// requires it.
func Encode(entries []Entry) ([]byte, error) {
	records := make([]record, 0, len(entries))
	for _, entry := range entries {
		rec := record{
			ID:          entry.ID.String(),
			StartTime:   entry.StartTime.UTC(),
			Description: entry.Description,
		}
		if entry.EndTime != nil {
			end := entry.EndTime.UTC()
			rec.EndTime = &end
		}
		records = append(records, rec)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a day file. A root that is not a sequence fails the whole
// document with a *ParseError; a malformed element is only recorded in
// Document.Skipped. Empty input yields an empty document.
func Decode(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, &ParseError{Err: err}
	}

	seq := &root
	if seq.Kind == yaml.DocumentNode {
		if len(seq.Content) == 0 {
			return Document{}, nil
		}
		seq = seq.Content[0]
	}
	switch {
	case seq.Kind == 0:
		return Document{}, nil
	case seq.Kind == yaml.ScalarNode && seq.ShortTag() == "!!null":
		return Document{}, nil
	case seq.Kind != yaml.SequenceNode:
		return Document{}, &ParseError{Err: fmt.Errorf("%w (line %d)", ErrNotSequence, seq.Line)}
	}

	doc := Document{Entries: make([]Entry, 0, len(seq.Content))}
	for i, node := range seq.Content {
		entry, err := decodeRecord(node)
		if err != nil {
			doc.Skipped = append(doc.Skipped, RecordError{Index: i, Line: node.Line, Err: err})
			continue
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

func decodeRecord(node *yaml.Node) (Entry, error) {
	if node.Kind != yaml.MappingNode {
		return Entry{}, errors.New("expected a mapping")
	}

	var raw rawRecord
	if err := node.Decode(&raw); err != nil {
		return Entry{}, err
	}
	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Entry{}, fmt.Errorf("%w: %s", ErrMissingField, verrs[0].Field())
		}
		return Entry{}, err
	}

	id, err := uuid.Parse(strings.TrimSpace(*raw.ID))
	if err != nil {
		return Entry{}, fmt.Errorf("parse id: %w", err)
	}
	start, err := parseTimestamp(*raw.StartTime)
	if err != nil {
		return Entry{}, fmt.Errorf("parse startTime: %w", err)
	}

	entry := Entry{
		ID:          id,
		StartTime:   start,
		Description: *raw.Description,
	}
	if raw.EndTime != nil && strings.TrimSpace(*raw.EndTime) != "" {
		end, err := parseTimestamp(*raw.EndTime)
		if err != nil {
			return Entry{}, fmt.Errorf("parse endTime: %w", err)
		}
		if end.Before(start) {
			return Entry{}, ErrEndBeforeStart
		}
		entry.EndTime = &end
	}
	return entry, nil
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds.
func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(value))
}
