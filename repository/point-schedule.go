package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// PointSchedule is the tiered attempts-to-points rule set for a single climb.
// Flash is the attempt-1 value and never appears in the Attempts map; any
// attempt count without an explicit tier falls back to MinPoints.
type PointSchedule struct {
	Flash       int         `json:"flash"`
	Attempts    map[int]int `json:"attempts"`
	MaxAttempts int         `json:"maxAttempts"`
	MinPoints   int         `json:"minPoints"`
}

func DefaultPointSchedule() PointSchedule {
	return PointSchedule{
		Flash:       1000,
		Attempts:    map[int]int{2: 800, 3: 600, 4: 500},
		MaxAttempts: 10,
		MinPoints:   100,
	}
}

func (s *PointSchedule) Validate() error {
	if s.Flash < 0 || s.MinPoints < 0 {
		return errors.New("point values must be non-negative")
	}
	if s.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	for attempts, points := range s.Attempts {
		if attempts < 2 {
			return fmt.Errorf("attempts tier %d is invalid, tiers start at 2", attempts)
		}
		if points < 0 {
			return fmt.Errorf("attempts tier %d has a negative point value", attempts)
		}
	}
	return nil
}

func (s *PointSchedule) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported data type for PointSchedule")
	}
}

func (s PointSchedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}
