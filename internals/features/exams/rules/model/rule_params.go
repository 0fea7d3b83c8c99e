package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"examplanner_backend/internals/helpers/dbtime"
)

// WeekdayList accepts either ["Monday","Friday"] or a bare "Monday".
type WeekdayList []string

func (w *WeekdayList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*w = WeekdayList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("weekdays must be a string or a list of strings")
	}
	*w = many
	return nil
}

// WeekdaysParams is the payload of SUBJECT_ONLY_WEEKDAYS.
type WeekdaysParams struct {
	Weekdays WeekdayList `json:"weekdays"`
}

func (p WeekdaysParams) Allows(d dbtime.Date) bool {
	name := d.WeekdayName()
	for _, w := range p.Weekdays {
		if w == name {
			return true
		}
	}
	return false
}

// DecodeParams parses the param bag into the kind's payload. Kinds without a
// payload return (nil, nil) and ignore whatever the bag holds.
func DecodeParams(kind Kind, raw datatypes.JSON) (any, error) {
	switch kind {
	case KindSubjectOnlyWeekdays:
		var p WeekdaysParams
		if len(raw) == 0 {
			return nil, errors.New("SUBJECT_ONLY_WEEKDAYS requires params.weekdays")
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if len(p.Weekdays) == 0 {
			return nil, errors.New("SUBJECT_ONLY_WEEKDAYS requires params.weekdays")
		}
		for i, w := range p.Weekdays {
			w = strings.TrimSpace(w)
			if !dbtime.IsWeekdayName(w) {
				return nil, fmt.Errorf("invalid weekday %q in params.weekdays", w)
			}
			p.Weekdays[i] = w
		}
		return p, nil
	default:
		return nil, nil
	}
}
