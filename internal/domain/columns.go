package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
)

// ==================== JSON TYPES ====================

// TagNames is a set of normalized tag names stored as a sorted JSON array.
type TagNames []string

func (t TagNames) Value() (driver.Value, error) {
	if t == nil {
		t = TagNames{}
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagNames) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*t = TagNames{}
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return err
	}
	*t = NewTagNames(names)
	return nil
}

func (t TagNames) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// NewTagNames sorts and deduplicates already-normalized names.
func NewTagNames(names []string) TagNames {
	out := make(TagNames, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// UsageLog is the append-only sequence of usage entries kept on a task.
type UsageLog []UsageEntry

func (u UsageLog) Value() (driver.Value, error) {
	if u == nil {
		u = UsageLog{}
	}
	b, err := json.Marshal([]UsageEntry(u))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (u *UsageLog) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*u = UsageLog{}
		return nil
	}
	var entries []UsageEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}
	if entries == nil {
		entries = []UsageEntry{}
	}
	*u = entries
	return nil
}

func (u UsageLog) MarshalJSON() ([]byte, error) {
	if u == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]UsageEntry(u))
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("failed to scan JSON column: invalid type")
	}
}
