package models

import (
	"encoding/json"
	"time"
)

// Measurement statuses.
const (
	MeasurementUnmeasured = "unmeasured"
	MeasurementMeasured   = "measured"
)

type FabricationDetail struct {
	ID                int        `json:"id"`
	OrderID           int        `json:"order_id"`
	Measurer          string     `json:"measurer"`
	MeasurementDate   *time.Time `json:"measurement_date,omitempty"`
	MeasurementStatus string     `json:"measurement_status"`
	Sender            string     `json:"sender"`
	Installer         string     `json:"installer"`
	ScheduledDate     time.Time  `json:"scheduled_date"`
	ProductStatus     string     `json:"product_status"`
	Printed           bool       `json:"printed"`
	RawLength         float64    `json:"raw_length"`
	RawWidth          float64    `json:"raw_width"`
	LengthProfile     float64    `json:"length_profile"`
	WidthProfile      float64    `json:"width_profile"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FinishedLength is the production length after the profile deduction.
func (d *FabricationDetail) FinishedLength() float64 {
	return d.RawLength - d.LengthProfile
}

// FinishedWidth is the production width after the profile deduction.
func (d *FabricationDetail) FinishedWidth() float64 {
	return d.RawWidth - d.WidthProfile
}

func (d FabricationDetail) MarshalJSON() ([]byte, error) {
	type alias FabricationDetail
	return json.Marshal(struct {
		alias
		FinishedLength float64 `json:"finished_length"`
		FinishedWidth  float64 `json:"finished_width"`
	}{alias(d), d.FinishedLength(), d.FinishedWidth()})
}
