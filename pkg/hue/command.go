package hue

import (
	"math"

	"github.com/samber/lo"
)

// CommandLight is a sparse light state change. Every field is optional and nil
// fields are left out of the request body entirely.
//
// The builder methods return a copy with one field replaced; a CommandLight is never
// modified in place, so a base command can be shared and extended freely.
type CommandLight struct {
	On  *bool   `json:"on,omitempty"`
	Bri *uint8  `json:"bri,omitempty"`
	Hue *uint16 `json:"hue,omitempty"`
	Sat *uint8  `json:"sat,omitempty"`
	// mired colour temperature, 153 (6500K) to 500 (2000K) on most bulbs
	CT *uint16     `json:"ct,omitempty"`
	XY *[2]float64 `json:"xy,omitempty"`
	// tenths of a second on the legacy API, milliseconds on v2
	TransitionTime *uint16 `json:"transitiontime,omitempty"`
	Alert          *string `json:"alert,omitempty"`
}

func (c CommandLight) TurnOn() CommandLight {
	return c.WithOn(true)
}

func (c CommandLight) TurnOff() CommandLight {
	return c.WithOn(false)
}

func (c CommandLight) WithOn(on bool) CommandLight {
	c.On = lo.ToPtr(on)
	return c
}

func (c CommandLight) WithBri(bri uint8) CommandLight {
	c.Bri = lo.ToPtr(bri)
	return c
}

func (c CommandLight) WithHue(hue uint16) CommandLight {
	c.Hue = lo.ToPtr(hue)
	return c
}

func (c CommandLight) WithSat(sat uint8) CommandLight {
	c.Sat = lo.ToPtr(sat)
	return c
}

func (c CommandLight) WithCT(mirek uint16) CommandLight {
	c.CT = lo.ToPtr(mirek)
	return c
}

func (c CommandLight) WithXY(x, y float64) CommandLight {
	c.XY = &[2]float64{x, y}
	return c
}

func (c CommandLight) WithTransitionTime(t uint16) CommandLight {
	c.TransitionTime = lo.ToPtr(t)
	return c
}

func (c CommandLight) WithAlert(alert string) CommandLight {
	c.Alert = lo.ToPtr(alert)
	return c
}

// LightUpdate is the v2 body for light and grouped_light PUTs.
type LightUpdate struct {
	On               *OnState     `json:"on,omitempty"`
	Dimming          *Dimming     `json:"dimming,omitempty"`
	ColorTemperature *MirekUpdate `json:"color_temperature,omitempty"`
	Color            *Color       `json:"color,omitempty"`
	Dynamics         *Dynamics    `json:"dynamics,omitempty"`
	Alert            *AlertUpdate `json:"alert,omitempty"`
}

type MirekUpdate struct {
	Mirek int `json:"mirek"`
}

type Dynamics struct {
	// milliseconds
	Duration int `json:"duration"`
}

type AlertUpdate struct {
	Action string `json:"action"`
}

const legacyMaxBri = 254

// ResourceUpdate translates the command to the v2 body.
//
// Brightness becomes a percentage. Hue and saturation have no v2 field and are sent
// as the xy point of the same colour; saturation on its own is dropped. An explicit
// xy wins over hue/sat.
func (c CommandLight) ResourceUpdate() LightUpdate {
	var u LightUpdate

	if c.On != nil {
		u.On = &OnState{On: *c.On}
	}
	if c.Bri != nil {
		u.Dimming = &Dimming{Brightness: math.Min(float64(*c.Bri)/legacyMaxBri*100, 100)}
	}
	if c.CT != nil {
		u.ColorTemperature = &MirekUpdate{Mirek: int(*c.CT)}
	}

	switch {
	case c.XY != nil:
		u.Color = &Color{XY: XY{X: c.XY[0], Y: c.XY[1]}}
	case c.Hue != nil:
		sat := 1.0
		if c.Sat != nil {
			sat = math.Min(float64(*c.Sat)/legacyMaxBri, 1)
		}
		u.Color = &Color{XY: HSVToXY(float64(*c.Hue)/65535, sat, 1)}
	}

	if c.TransitionTime != nil {
		u.Dynamics = &Dynamics{Duration: int(*c.TransitionTime)}
	}
	if c.Alert != nil && *c.Alert != "none" {
		u.Alert = &AlertUpdate{Action: "breathe"}
	}

	return u
}
