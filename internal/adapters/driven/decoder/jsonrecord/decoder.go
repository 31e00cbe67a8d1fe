// Package jsonrecord decodes JSON object records into entities.
//
// A record is one JSON object:
//
//	{
//	  "guid":  "msg-1",
//	  "kind":  "message",
//	  "title": "Hello",
//	  "refs":  {"thread": "thr-1", "mentions": ["usr-1", "usr-2"]},
//	  "body":  "..."
//	}
//
// "guid" is required. "title" falls back to "name". Each entry of "refs"
// becomes one relation per referenced GUID. Every other top-level field is
// kept as an attribute.
package jsonrecord

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.RecordDecoder = (*Decoder)(nil)

// Reserved field names.
const (
	FieldGUID  = "guid"
	FieldKind  = "kind"
	FieldTitle = "title"
	FieldName  = "name"
	FieldRefs  = "refs"
)

// Decoder is stateless and safe for concurrent use.
type Decoder struct{}

// NewDecoder creates a JSON record decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses one record payload.
func (d *Decoder) Decode(record domain.Record) (*domain.Entity, error) {
	if !gjson.ValidBytes(record.Payload) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedRecord)
	}
	doc := gjson.ParseBytes(record.Payload)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", domain.ErrMalformedRecord, doc.Type)
	}

	guid := doc.Get(FieldGUID)
	if !guid.Exists() || guid.Type == gjson.Null {
		return nil, domain.ErrMissingGUID
	}
	if guid.Type != gjson.String || guid.Str == "" {
		return nil, fmt.Errorf("%w: %q must be a non-empty string", domain.ErrMalformedRecord, FieldGUID)
	}

	entity := &domain.Entity{
		GUID:       guid.Str,
		Kind:       doc.Get(FieldKind).String(),
		Title:      doc.Get(FieldTitle).String(),
		Attributes: make(map[string]any),
	}
	if entity.Title == "" {
		entity.Title = doc.Get(FieldName).String()
	}

	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case FieldGUID, FieldKind, FieldTitle:
		case FieldRefs:
			entity.Relations, err = decodeRefs(value)
		default:
			entity.Attributes[key.Str] = value.Value()
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// decodeRefs turns the refs object into relations, in document order.
// Null entries are skipped.
func decodeRefs(refs gjson.Result) ([]domain.Relation, error) {
	if refs.Type == gjson.Null {
		return nil, nil
	}
	if !refs.IsObject() {
		return nil, fmt.Errorf("%w: %q must be an object", domain.ErrMalformedRecord, FieldRefs)
	}

	var relations []domain.Relation
	var err error
	refs.ForEach(func(name, value gjson.Result) bool {
		var guids []gjson.Result
		if value.IsArray() {
			guids = value.Array()
		} else {
			guids = []gjson.Result{value}
		}
		for _, g := range guids {
			if g.Type == gjson.Null {
				continue
			}
			if g.Type != gjson.String || g.Str == "" {
				err = fmt.Errorf("%w: ref %q must hold GUID strings", domain.ErrMalformedRecord, name.Str)
				return false
			}
			relations = append(relations, domain.Relation{
				Name: name.Str,
				Ref:  domain.Ref{GUID: g.Str},
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return relations, nil
}
