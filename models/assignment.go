package models

type RefereeAssignment struct {
	ID      int  `json:"id" db:"id"`
	MatchID int  `json:"match_id" db:"match_id"`
	RefJ1ID *int `json:"ref_j1_id,omitempty" db:"ref_j1_id"`
	RefJ2ID *int `json:"ref_j2_id,omitempty" db:"ref_j2_id"`
	RefJ3ID *int `json:"ref_j3_id,omitempty" db:"ref_j3_id"`
	RefCRID *int `json:"ref_cr_id,omitempty" db:"ref_cr_id"`
	RefRJID *int `json:"ref_rj_id,omitempty" db:"ref_rj_id"`
	RefTAID *int `json:"ref_ta_id,omitempty" db:"ref_ta_id"`
}

// RefereeIDs returns the non-empty referee slots.
func (a *RefereeAssignment) RefereeIDs() []int {
	ids := make([]int, 0, 6)
	for _, id := range []*int{a.RefJ1ID, a.RefJ2ID, a.RefJ3ID, a.RefCRID, a.RefRJID, a.RefTAID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

type DeviceType string

const (
	DeviceDaedo   DeviceType = "DAEDO"
	DeviceKPNP    DeviceType = "KPNP"
	DeviceGeneric DeviceType = "GENERIC"
)

type EquipmentAssignment struct {
	ID            int        `json:"id" db:"id"`
	MatchID       int        `json:"match_id" db:"match_id"`
	CompetitorID  int        `json:"competitor_id" db:"competitor_id"`
	ChestSensorID *string    `json:"chest_sensor_id,omitempty" db:"chest_sensor_id"`
	HeadSensorID  *string    `json:"head_sensor_id,omitempty" db:"head_sensor_id"`
	DeviceType    DeviceType `json:"device_type" db:"device_type"`
}
