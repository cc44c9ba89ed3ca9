package hue

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ResourceType string

const (
	RTypeLight              ResourceType = "light"
	RTypeDevice             ResourceType = "device"
	RTypeRoom               ResourceType = "room"
	RTypeZone               ResourceType = "zone"
	RTypeScene              ResourceType = "scene"
	RTypeGroupedLight       ResourceType = "grouped_light"
	RTypeZigbeeConnectivity ResourceType = "zigbee_connectivity"
)

// ResourceIdentifier is how v2 resources reference each other.
type ResourceIdentifier struct {
	RID   string       `json:"rid"`
	RType ResourceType `json:"rtype"`
}

// IsResourceID reports whether id has the UUID form used by the v2 API.
func IsResourceID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type Metadata struct {
	Name      string `json:"name"`
	Archetype string `json:"archetype,omitempty"`
}

type OnState struct {
	On bool `json:"on"`
}

type Dimming struct {
	Brightness float64 `json:"brightness"`
}

type MirekSchema struct {
	Minimum int `json:"mirek_minimum"`
	Maximum int `json:"mirek_maximum"`
}

// ColorTemperature.Mirek is nil while the light is showing an xy colour.
type ColorTemperature struct {
	Mirek       *int         `json:"mirek"`
	MirekValid  bool         `json:"mirek_valid"`
	MirekSchema *MirekSchema `json:"mirek_schema,omitempty"`
}

type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Color struct {
	XY XY `json:"xy"`
}

// Light is a v2 light service. Channels the hardware lacks are nil.
type Light struct {
	ID               string             `json:"id"`
	IDV1             string             `json:"id_v1,omitempty"`
	Owner            ResourceIdentifier `json:"owner"`
	Metadata         Metadata           `json:"metadata"`
	On               OnState            `json:"on"`
	Dimming          *Dimming           `json:"dimming,omitempty"`
	ColorTemperature *ColorTemperature  `json:"color_temperature,omitempty"`
	Color            *Color             `json:"color,omitempty"`
}

type ProductData struct {
	ModelID         string `json:"model_id"`
	ProductName     string `json:"product_name"`
	SoftwareVersion string `json:"software_version"`
}

type Device struct {
	ID          string               `json:"id"`
	IDV1        string               `json:"id_v1,omitempty"`
	Metadata    Metadata             `json:"metadata"`
	ProductData ProductData          `json:"product_data"`
	Services    []ResourceIdentifier `json:"services"`
}

// Lights returns the device's light services.
func (d Device) Lights() []ResourceIdentifier {
	return lo.Filter(d.Services, func(s ResourceIdentifier, _ int) bool {
		return s.RType == RTypeLight
	})
}

// Group is a room or a zone.
type Group struct {
	ID       string               `json:"id"`
	IDV1     string               `json:"id_v1,omitempty"`
	Type     ResourceType         `json:"type"`
	Metadata Metadata             `json:"metadata"`
	Children []ResourceIdentifier `json:"children"`
	Services []ResourceIdentifier `json:"services"`
}

// GroupedLight returns the grouped_light service that controls every light in the group.
func (g Group) GroupedLight() (ResourceIdentifier, bool) {
	return lo.Find(g.Services, func(s ResourceIdentifier) bool {
		return s.RType == RTypeGroupedLight
	})
}

// ResolvedGroup is a snapshot of a group with its lights materialised.
type ResolvedGroup struct {
	Group
	Lights []Light
}

type Scene struct {
	ID       string             `json:"id"`
	IDV1     string             `json:"id_v1,omitempty"`
	Metadata Metadata           `json:"metadata"`
	Group    ResourceIdentifier `json:"group"`
}

type Registration struct {
	Username  string `json:"username"`
	ClientKey string `json:"clientkey,omitempty"`
}

// LegacyLightState is the state block of a v1 light.
type LegacyLightState struct {
	On        bool        `json:"on"`
	Bri       *uint8      `json:"bri,omitempty"`
	Hue       *uint16     `json:"hue,omitempty"`
	Sat       *uint8      `json:"sat,omitempty"`
	CT        *uint16     `json:"ct,omitempty"`
	XY        *[2]float64 `json:"xy,omitempty"`
	ColorMode string      `json:"colormode,omitempty"`
	Reachable bool        `json:"reachable"`
}

type LegacyLight struct {
	ID        string           `json:"-"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	ModelID   string           `json:"modelid"`
	SWVersion string           `json:"swversion"`
	UniqueID  string           `json:"uniqueid"`
	State     LegacyLightState `json:"state"`
}

// Event is one resource diff delivered by the event stream.
type Event struct {
	ID               string              `json:"id"`
	IDV1             string              `json:"id_v1,omitempty"`
	Type             ResourceType        `json:"type"`
	Owner            *ResourceIdentifier `json:"owner,omitempty"`
	On               *OnState            `json:"on,omitempty"`
	Dimming          *Dimming            `json:"dimming,omitempty"`
	ColorTemperature *ColorTemperature   `json:"color_temperature,omitempty"`
	Color            *Color              `json:"color,omitempty"`
	Status           string              `json:"status,omitempty"`

	// copied from the enclosing envelope
	EventType    string    `json:"-"`
	CreationTime time.Time `json:"-"`
}

type eventEnvelope struct {
	ID           string    `json:"id"`
	CreationTime time.Time `json:"creationtime"`
	Type         string    `json:"type"`
	Data         []Event   `json:"data"`
}
