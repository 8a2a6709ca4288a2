package cache

import (
	"encoding/json"
	"strconv"
)

// Count is the outcome of a best-effort counter read: a value, or unknown when the cache
// could not answer. Unknown renders as JSON null.
type Count struct {
	Value int64
	Known bool
}

// KnownCount wraps a value read from the cache.
func KnownCount(v int64) Count {
	return Count{Value: v, Known: true}
}

// UnknownCount marks a counter the cache could not provide.
func UnknownCount() Count {
	return Count{}
}

// MarshalJSON implements json.Marshaler.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Value, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = UnknownCount()
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = KnownCount(v)
	return nil
}

func (c Count) String() string {
	if !c.Known {
		return "unknown"
	}
	return strconv.FormatInt(c.Value, 10)
}
