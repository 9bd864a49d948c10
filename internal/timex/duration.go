// Package timex contains small time helpers shared by config parsing and the
// sync core: a JSON-friendly Duration and the millisecond clock used for all
// record timestamps.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration wraps time.Duration so JSON config files can specify intervals
// either as strings like "3s" or as integer nanoseconds.
type Duration struct {
	Duration time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// NowMillis returns the current time as milliseconds since the Unix epoch.
// All record timestamps (addedAt, deletedAt, lastReadAt, savedAt) use this
// representation; comparisons are numeric and absent values compare as 0.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
