package upstream

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quillcms/console/internal/domain"
)

// DecodeRecord is the validated decoding boundary: upstream payloads are
// checked against the collection schema before they become domain records,
// so a malformed response fails here instead of leaking zero values into
// cached state. schema may be nil for collections without one.
func DecodeRecord(op string, data json.RawMessage, schema *jsonschema.Schema) (*domain.Record, error) {
	if err := validate(data, schema); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return &rec, nil
}

// DecodeRecordList decodes a collection listing, validating each element.
func DecodeRecordList(op string, data json.RawMessage, schema *jsonschema.Schema) ([]*domain.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	records := make([]*domain.Record, 0, len(raw))
	for _, item := range raw {
		rec, err := DecodeRecord(op, item, schema)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func validate(data json.RawMessage, schema *jsonschema.Schema) error {
	if schema == nil {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return schema.Validate(value)
}
