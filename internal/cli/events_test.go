package cli

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/wheelibin/hueclient/internal/constants"
	"github.com/wheelibin/hueclient/pkg/hue"
)

func Test_DescribeEvent(t *testing.T) {
	at := time.Date(2023, 5, 1, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		event hue.Event
		want  string
	}{
		{
			name: "light update",
			event: hue.Event{
				ID: "light-1", Type: hue.RTypeLight, EventType: constants.EventBatchTypeUpdate, CreationTime: at,
				On:               &hue.OnState{On: true},
				Dimming:          &hue.Dimming{Brightness: 80},
				ColorTemperature: &hue.ColorTemperature{Mirek: lo.ToPtr(370)},
			},
			want: "10:00:00 ~ light light-1 on=true brightness=80% mirek=370",
		},
		{
			name: "colour",
			event: hue.Event{
				ID: "light-2", Type: hue.RTypeLight, EventType: constants.EventBatchTypeUpdate, CreationTime: at,
				Color: &hue.Color{XY: hue.XY{X: 0.4573, Y: 0.41}},
			},
			want: "10:00:00 ~ light light-2 xy=0.4573,0.4100",
		},
		{
			name:  "added",
			event: hue.Event{ID: "scene-1", Type: hue.RTypeScene, EventType: constants.EventBatchTypeAdd, CreationTime: at},
			want:  "10:00:00 + scene scene-1",
		},
		{
			name:  "deleted",
			event: hue.Event{ID: "scene-1", Type: hue.RTypeScene, EventType: constants.EventBatchTypeDelete, CreationTime: at},
			want:  "10:00:00 - scene scene-1",
		},
		{
			name: "connectivity lost",
			event: hue.Event{ID: "zb-1", Type: hue.RTypeZigbeeConnectivity, EventType: constants.EventBatchTypeUpdate, CreationTime: at,
				Status: constants.EventStatusConnectivityIssue},
			want: "10:00:00 ~ zigbee_connectivity zb-1 status=CONNECTIVITY_ISSUE",
		},
		{
			name: "connectivity restored",
			event: hue.Event{ID: "zb-1", Type: hue.RTypeZigbeeConnectivity, EventType: constants.EventBatchTypeUpdate, CreationTime: at,
				Status: constants.EventStatusConnected},
			want: "10:00:00 ~ zigbee_connectivity zb-1 status=ok",
		},
		{
			name:  "unknown event kind",
			event: hue.Event{ID: "x", Type: hue.RTypeDevice, EventType: "weird", CreationTime: at, Status: "unidirectional_incoming"},
			want:  "10:00:00 ? device x status=unidirectional_incoming",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeEvent(tt.event))
		})
	}
}
