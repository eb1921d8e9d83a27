package model

import (
	"encoding/json"
	"fmt"
)

// PayType is the wire tag for a job's pay model.
type PayType string

const (
	PayTypeHourly   PayType = "hourly"
	PayTypePerShift PayType = "perShift"
)

// Pay is the pay model of a job. It is implemented only by Hourly and
// PerShift; callers switch on the concrete type.
type Pay interface {
	Type() PayType
	Rate() float64
	isPay()
}

// Hourly pays PerHour for every hour worked.
type Hourly struct {
	PerHour float64
}

func (Hourly) Type() PayType { return PayTypeHourly }
func (h Hourly) Rate() float64 { return h.PerHour }
func (Hourly) isPay() {}

// PerShift pays a flat amount per shift regardless of its length.
type PerShift struct {
	Flat float64
}

func (PerShift) Type() PayType { return PayTypePerShift }
func (p PerShift) Rate() float64 { return p.Flat }
func (PerShift) isPay() {}

// Rate returns the rate of p, or 0 when the job has no pay configured.
func Rate(p Pay) float64 {
	if p == nil {
		return 0
	}
	return p.Rate()
}

// NewPay builds the pay variant for a wire tag. An empty tag means hourly.
func NewPay(t PayType, rate float64) (Pay, error) {
	switch t {
	case PayTypeHourly, "":
		return Hourly{PerHour: rate}, nil
	case PayTypePerShift:
		return PerShift{Flat: rate}, nil
	default:
		return nil, fmt.Errorf("unknown pay type %q", t)
	}
}

// Preset is a named time-range template used for quick entry.
type Preset struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Job is a workplace or income source.
type Job struct {
	ID          string
	Name        string
	Color       string
	ManagerName string
	// Pay is nil when no rate has been set; such a job earns nothing.
	Pay     Pay
	Presets []Preset
}

// jobJSON is the stored form of a Job. Field names are shared with the
// browser build of the app so exported collections stay interchangeable.
type jobJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	ManagerName string   `json:"managerName,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty"`
	PayType     PayType  `json:"payType,omitempty"`
	Presets     []Preset `json:"presets,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (j Job) MarshalJSON() ([]byte, error) {
	out := jobJSON{
		ID:          j.ID,
		Name:        j.Name,
		Color:       j.Color,
		ManagerName: j.ManagerName,
		Presets:     j.Presets,
	}
	if j.Pay != nil {
		rate := j.Pay.Rate()
		out.HourlyRate = &rate
		out.PayType = j.Pay.Type()
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *Job) UnmarshalJSON(data []byte) error {
	var in jobJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*j = Job{
		ID:          in.ID,
		Name:        in.Name,
		Color:       in.Color,
		ManagerName: in.ManagerName,
		Presets:     in.Presets,
	}
	if in.HourlyRate != nil {
		pay, err := NewPay(in.PayType, *in.HourlyRate)
		if err != nil {
			return fmt.Errorf("job %s: %w", in.ID, err)
		}
		j.Pay = pay
	}
	return nil
}

// PresetAt returns the preset at index i, if any.
func (j Job) PresetAt(i int) (Preset, bool) {
	if i < 0 || i >= len(j.Presets) {
		return Preset{}, false
	}
	return j.Presets[i], true
}
