package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The dictionary carries loosely structured linguistic data (phonological
// analyses, morpheme breakdowns, usage examples) and array-valued fields
// (synonym lists, word references). They are stored as serialized JSON in
// text columns so the same models run on Postgres and SQLite.

// JSONMap is a free-form JSON object column. Contents are stored and
// returned as-is; the internal schema is not validated.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

// GormDataType names the column type for the migrator; the zero value
// gives it nothing to infer one from.
func (JSONMap) GormDataType() string {
	return "text"
}

// JSONList is a JSON array of objects, used for usage examples and dialect
// variation entries.
type JSONList []map[string]any

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(src any) error {
	return scanJSON(src, l)
}

func (JSONList) GormDataType() string {
	return "text"
}

// StringList is a JSON array of strings (synonyms, suffixes, vocal types).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func (StringList) GormDataType() string {
	return "text"
}

// Contains reports whether v is present in the list.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// IDList is a JSON array of entity IDs, used for word references on a
// translation. Order is insertion order; consumers treat it as a set.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(src any) error {
	return scanJSON(src, l)
}

func (IDList) GormDataType() string {
	return "text"
}

func scanJSON(src, dst any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
