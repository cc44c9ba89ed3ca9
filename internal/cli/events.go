package cli

import (
	"fmt"
	"strings"

	"github.com/wheelibin/hueclient/internal/constants"
	"github.com/wheelibin/hueclient/pkg/hue"
)

var eventMarkers = map[string]string{
	constants.EventBatchTypeAdd:    "+",
	constants.EventBatchTypeUpdate: "~",
	constants.EventBatchTypeDelete: "-",
	constants.EventBatchTypeError:  "!",
}

// DescribeEvent renders one event as a single line: time, kind marker, resource
// and whichever channels the event carries.
func DescribeEvent(e hue.Event) string {
	marker, ok := eventMarkers[e.EventType]
	if !ok {
		marker = "?"
	}

	parts := []string{e.CreationTime.Local().Format("15:04:05"), marker, string(e.Type), e.ID}
	if e.On != nil {
		parts = append(parts, fmt.Sprintf("on=%t", e.On.On))
	}
	if e.Dimming != nil {
		parts = append(parts, fmt.Sprintf("brightness=%.0f%%", e.Dimming.Brightness))
	}
	if e.ColorTemperature != nil && e.ColorTemperature.Mirek != nil {
		parts = append(parts, fmt.Sprintf("mirek=%d", *e.ColorTemperature.Mirek))
	}
	if e.Color != nil {
		parts = append(parts, fmt.Sprintf("xy=%.4f,%.4f", e.Color.XY.X, e.Color.XY.Y))
	}

	switch e.Status {
	case "":
	case constants.EventStatusConnectivityIssue:
		parts = append(parts, "status="+strings.ToUpper(e.Status))
	case constants.EventStatusConnected:
		parts = append(parts, "status=ok")
	default:
		parts = append(parts, "status="+e.Status)
	}
	return strings.Join(parts, " ")
}
