package types

import (
	"bytes"
	"encoding/json"
)

// Field tracks whether a JSON key was present at all. Absent keys leave
// Set false; an explicit null sets Set with a nil Value.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func SetField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// ResourcePatch is an admin partial update of a published resource.
// LanguagesSpoken is a comma separated string as typed into the admin form.
type ResourcePatch struct {
	Name              Field[string] `json:"name"`
	Description       Field[string] `json:"description"`
	Address           Field[string] `json:"address"`
	City              Field[string] `json:"city"`
	State             Field[string] `json:"state"`
	ZipCode           Field[string] `json:"zip_code"`
	Phone             Field[string] `json:"phone"`
	Website           Field[string] `json:"website"`
	Email             Field[string] `json:"email"`
	Hours             Field[string] `json:"hours"`
	IsActive          Field[bool]   `json:"is_active"`
	PrimaryCategoryID Field[int64]  `json:"primary_category_id"`

	EligibilityRequirements Field[string] `json:"eligibility_requirements"`
	AppointmentRequired     Field[bool]   `json:"appointment_required"`
	WalkInsAccepted         Field[bool]   `json:"walk_ins_accepted"`
	FoodDistType            Field[string] `json:"food_dist_type"`
	FoodDistOnsite          Field[bool]   `json:"food_dist_onsite"`
	ServiceArea             Field[string] `json:"service_area"`
	LanguagesSpoken         Field[string] `json:"languages_spoken"`
}
