package hue_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/hueclient/pkg/hue"
)

const (
	testKey     = "test-application-key"
	testLightID = "3b5c5ab5-8f6e-4f1e-a8c4-8e1cf9b8c1a0"
	testSceneID = "c2b1a3f0-7d2e-4b8a-9c61-1f0e2d3c4b5a"
)

// newTestBridge points a bridge at handler and returns it with the server's address.
func newTestBridge(t *testing.T, handler http.HandlerFunc) *hue.Bridge {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	return hue.New(netip.MustParseAddr("127.0.0.1"),
		hue.WithBaseURL(ts.URL),
		hue.WithHTTPClient(ts.Client()),
		hue.WithLogger(logger),
	).WithApplicationKey(testKey)
}

func Test_New(t *testing.T) {
	b := hue.New(netip.MustParseAddr("::ffff:192.168.1.143"))

	assert.Equal(t, netip.MustParseAddr("192.168.1.143"), b.Address())
	assert.Empty(t, b.ApplicationKey())
	assert.Equal(t, "abc", b.WithUser("abc").ApplicationKey())
	assert.Empty(t, b.ApplicationKey(), "WithUser must return a copy")
}

func Test_Register(t *testing.T) {

	t.Run("returns the issued credential", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hueclient#test", body["devicetype"])
			assert.Equal(t, true, body["generateclientkey"])

			_, _ = io.WriteString(w, `[{"success":{"username":"new-user","clientkey":"ABCDEF"}}]`)
		})

		reg, err := b.Register(context.Background(), "hueclient#test")

		require.NoError(t, err)
		assert.Equal(t, "new-user", reg.Username)
		assert.Equal(t, "ABCDEF", reg.ClientKey)
	})

	t.Run("link button not pressed", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[{"error":{"type":101,"address":"","description":"link button not pressed"}}]`)
		})

		_, err := b.Register(context.Background(), "hueclient#test")

		require.Error(t, err)
		assert.True(t, hue.IsLinkButtonNotPressed(err))
	})
}

func Test_ListLights(t *testing.T) {
	b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clip/v2/resource/light", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("hue-application-key"))

		_, _ = io.WriteString(w, `{"errors":[],"data":[
			{"id":"b","metadata":{"name":"Lamp B"},"on":{"on":false}},
			{"id":"a","metadata":{"name":"Lamp A"},"on":{"on":true},"dimming":{"brightness":42.5},
			 "color_temperature":{"mirek":null,"mirek_valid":false},"color":{"xy":{"x":0.4,"y":0.5}}}
		]}`)
	})

	lights, err := b.ListLights(context.Background())

	require.NoError(t, err)
	require.Len(t, lights, 2)
	assert.Equal(t, "a", lights[0].ID)
	assert.Equal(t, "b", lights[1].ID)

	// channels present on the wire
	require.NotNil(t, lights[0].Dimming)
	assert.Equal(t, 42.5, lights[0].Dimming.Brightness)
	require.NotNil(t, lights[0].ColorTemperature)
	assert.Nil(t, lights[0].ColorTemperature.Mirek)
	require.NotNil(t, lights[0].Color)

	// and absent ones stay absent
	assert.Nil(t, lights[1].Dimming)
	assert.Nil(t, lights[1].ColorTemperature)
	assert.Nil(t, lights[1].Color)
}

func Test_SetLightState(t *testing.T) {

	t.Run("sends the translated body", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/clip/v2/resource/light/"+testLightID, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"on":{"on":true},"color_temperature":{"mirek":370}}`, string(body))

			_, _ = io.WriteString(w, `{"errors":[],"data":[{"rid":"`+testLightID+`","rtype":"light"}]}`)
		})

		ids, err := b.SetLightState(context.Background(), testLightID, hue.CommandLight{}.TurnOn().WithCT(370))

		require.NoError(t, err)
		assert.Equal(t, []hue.ResourceIdentifier{{RID: testLightID, RType: hue.RTypeLight}}, ids)
	})

	t.Run("rejects ids that are not resource ids", func(t *testing.T) {
		called := false
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := b.SetLightState(context.Background(), "../config", hue.CommandLight{}.TurnOn())

		assert.ErrorIs(t, err, hue.ErrInvalidResourceID)
		assert.False(t, called)
	})

	t.Run("error status with an error body is a bridge error", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"errors":[{"description":"unauthorized user"}]}`)
		})

		_, err := b.SetLightState(context.Background(), testLightID, hue.CommandLight{}.TurnOn())

		var bridgeErr *hue.BridgeError
		require.ErrorAs(t, err, &bridgeErr)
		assert.Equal(t, "unauthorized user", bridgeErr.Description)
	})

	t.Run("error status without a body is a transport error", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := b.SetLightState(context.Background(), testLightID, hue.CommandLight{}.TurnOn())

		var transportErr *hue.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
		assert.False(t, transportErr.Timeout())
	})
}

func Test_TransportTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	b := hue.New(netip.MustParseAddr("127.0.0.1"),
		hue.WithBaseURL(ts.URL),
		hue.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)

	_, err := b.ListScenes(context.Background())

	var transportErr *hue.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Timeout())

	var bridgeErr *hue.BridgeError
	assert.False(t, errors.As(err, &bridgeErr))
}

func Test_RecallScene(t *testing.T) {
	b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clip/v2/resource/scene/"+testSceneID, r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"recall":{"action":"active"}}`, string(body))

		_, _ = io.WriteString(w, `{"errors":[],"data":[{"rid":"`+testSceneID+`","rtype":"scene"}]}`)
	})

	ids, err := b.RecallScene(context.Background(), testSceneID)

	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, hue.RTypeScene, ids[0].RType)
}

func Test_LegacyLights(t *testing.T) {

	t.Run("list is ordered by numeric id", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/"+testKey+"/lights", r.URL.Path)
			_, _ = io.WriteString(w, `{
				"10":{"name":"Ten","state":{"on":false,"reachable":true}},
				"2":{"name":"Two","state":{"on":true,"bri":254,"reachable":true}},
				"1":{"name":"One","state":{"on":true,"ct":370,"reachable":false}}
			}`)
		})

		lights, err := b.ListLegacyLights(context.Background())

		require.NoError(t, err)
		require.Len(t, lights, 3)
		assert.Equal(t, []string{"1", "2", "10"}, []string{lights[0].ID, lights[1].ID, lights[2].ID})
		assert.Equal(t, uint16(370), *lights[0].State.CT)
		assert.Nil(t, lights[0].State.Bri)
		assert.Equal(t, uint8(254), *lights[1].State.Bri)
	})

	t.Run("set state merges the reported changes", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/"+testKey+"/lights/7/state", r.URL.Path)

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"on":true,"bri":120,"transitiontime":4}`, string(body))

			_, _ = io.WriteString(w, `[
				{"success":{"/lights/7/state/on":true}},
				{"success":{"/lights/7/state/bri":120}},
				{"success":{"/lights/7/state/transitiontime":4}}
			]`)
		})

		cmd := hue.CommandLight{}.TurnOn().WithBri(120).WithTransitionTime(4)
		changes, err := b.SetLegacyLightState(context.Background(), "7", cmd)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"/lights/7/state/on":             true,
			"/lights/7/state/bri":            float64(120),
			"/lights/7/state/transitiontime": float64(4),
		}, changes)
	})

	t.Run("group action", func(t *testing.T) {
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/"+testKey+"/groups/3/action", r.URL.Path)
			_, _ = io.WriteString(w, `[{"error":{"type":3,"address":"/groups/3","description":"resource, /groups/3, not available"}}]`)
		})

		_, err := b.SetLegacyGroupState(context.Background(), "3", hue.CommandLight{}.TurnOff())

		var bridgeErr *hue.BridgeError
		require.ErrorAs(t, err, &bridgeErr)
		assert.Equal(t, hue.CodeResourceNotAvailable, bridgeErr.Code)
	})

	t.Run("non numeric ids are rejected", func(t *testing.T) {
		called := false
		b := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := b.SetLegacyLightState(context.Background(), testLightID, hue.CommandLight{}.TurnOn())

		assert.ErrorIs(t, err, hue.ErrInvalidResourceID)
		assert.False(t, called)
	})
}
