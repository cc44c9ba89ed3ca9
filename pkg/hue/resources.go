package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Register asks the bridge for a new application key. It makes exactly one
// attempt; until the link button has been pressed the bridge answers with a
// *BridgeError of code CodeLinkButtonNotPressed (see IsLinkButtonNotPressed).
func (b *Bridge) Register(ctx context.Context, deviceType string) (*Registration, error) {
	body := map[string]any{
		"devicetype":        deviceType,
		"generateclientkey": true,
	}

	raw, err := b.POST(ctx, "/api", body)
	if err != nil {
		return nil, err
	}

	type success struct {
		Success *Registration `json:"success"`
	}
	result, err := DecodeLegacy[success](raw)
	if err != nil {
		return nil, err
	}
	if result.Success == nil || result.Success.Username == "" {
		return nil, &ProtocolError{Msg: "registration response has no username"}
	}

	b.logger.Info("registered with bridge", "devicetype", deviceType)
	return result.Success, nil
}

func listResources[T any](ctx context.Context, b *Bridge, rtype ResourceType, id func(T) string) ([]T, error) {
	raw, err := b.GET(ctx, resourcePath(rtype))
	if err != nil {
		return nil, fmt.Errorf("error reading %s resources from hue bridge: %w", rtype, err)
	}

	items, err := DecodeResources[T](raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s response: %w", rtype, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return id(items[i]) < id(items[j])
	})
	return items, nil
}

func (b *Bridge) ListLights(ctx context.Context) ([]Light, error) {
	return listResources(ctx, b, RTypeLight, func(l Light) string { return l.ID })
}

func (b *Bridge) ListDevices(ctx context.Context) ([]Device, error) {
	return listResources(ctx, b, RTypeDevice, func(d Device) string { return d.ID })
}

func (b *Bridge) ListRooms(ctx context.Context) ([]Group, error) {
	return listResources(ctx, b, RTypeRoom, func(g Group) string { return g.ID })
}

func (b *Bridge) ListZones(ctx context.Context) ([]Group, error) {
	return listResources(ctx, b, RTypeZone, func(g Group) string { return g.ID })
}

func (b *Bridge) ListScenes(ctx context.Context) ([]Scene, error) {
	return listResources(ctx, b, RTypeScene, func(s Scene) string { return s.ID })
}

func (b *Bridge) ResolveRooms(ctx context.Context) ([]ResolvedGroup, error) {
	rooms, err := b.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return b.resolve(ctx, rooms)
}

func (b *Bridge) ResolveZones(ctx context.Context) ([]ResolvedGroup, error) {
	zones, err := b.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	return b.resolve(ctx, zones)
}

func (b *Bridge) resolve(ctx context.Context, groups []Group) ([]ResolvedGroup, error) {
	devices, err := b.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	lights, err := b.ListLights(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveGroups(groups, devices, lights), nil
}

// ResolveGroups materialises the lights of each group. Device children are followed
// through their light services; children that are light services themselves (as in
// zones) are looked up directly. References that do not resolve are skipped, since
// the three lists come from separate requests and may disagree.
func ResolveGroups(groups []Group, devices []Device, lights []Light) []ResolvedGroup {
	devicesByID := lo.KeyBy(devices, func(d Device) string { return d.ID })
	lightsByID := lo.KeyBy(lights, func(l Light) string { return l.ID })

	lookup := func(ref ResourceIdentifier, _ int) (Light, bool) {
		light, found := lightsByID[ref.RID]
		return light, found
	}

	return lo.Map(groups, func(g Group, _ int) ResolvedGroup {
		var groupLights []Light
		for _, child := range g.Children {
			switch child.RType {
			case RTypeDevice:
				device, found := devicesByID[child.RID]
				if !found {
					continue
				}
				groupLights = append(groupLights, lo.FilterMap(device.Lights(), lookup)...)
			case RTypeLight:
				if light, found := lookup(child, 0); found {
					groupLights = append(groupLights, light)
				}
			}
		}
		return ResolvedGroup{Group: g, Lights: groupLights}
	})
}

func (b *Bridge) putResource(ctx context.Context, rtype ResourceType, id string, body any) ([]ResourceIdentifier, error) {
	if !IsResourceID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceID, id)
	}

	raw, err := b.PUT(ctx, resourcePath(rtype, id), body)
	if err != nil {
		return nil, err
	}
	return DecodeResources[ResourceIdentifier](raw)
}

// SetLightState applies cmd to a v2 light. TransitionTime is read as milliseconds.
func (b *Bridge) SetLightState(ctx context.Context, lightID string, cmd CommandLight) ([]ResourceIdentifier, error) {
	b.logger.Debug("set light state", "id", lightID, "command", cmd)
	return b.putResource(ctx, RTypeLight, lightID, cmd.ResourceUpdate())
}

// SetGroupState applies cmd to a v2 grouped_light. TransitionTime is read as milliseconds.
func (b *Bridge) SetGroupState(ctx context.Context, groupedLightID string, cmd CommandLight) ([]ResourceIdentifier, error) {
	b.logger.Debug("set group state", "id", groupedLightID, "command", cmd)
	return b.putResource(ctx, RTypeGroupedLight, groupedLightID, cmd.ResourceUpdate())
}

func (b *Bridge) RecallScene(ctx context.Context, sceneID string) ([]ResourceIdentifier, error) {
	body := map[string]any{
		"recall": map[string]string{"action": "active"},
	}
	return b.putResource(ctx, RTypeScene, sceneID, body)
}

// ListLegacyLights reads the v1 light map, ordered by numeric id.
func (b *Bridge) ListLegacyLights(ctx context.Context) ([]LegacyLight, error) {
	raw, err := b.GET(ctx, legacyPath(b.applicationKey, "lights"))
	if err != nil {
		return nil, fmt.Errorf("error reading lights from hue bridge: %w", err)
	}

	byID, err := DecodeLegacy[map[string]LegacyLight](raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing lights response: %w", err)
	}

	lights := make([]LegacyLight, 0, len(byID))
	for id, light := range byID {
		light.ID = id
		lights = append(lights, light)
	}
	sort.Slice(lights, func(i, j int) bool {
		return legacyIDLess(lights[i].ID, lights[j].ID)
	})
	return lights, nil
}

func legacyIDLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// SetLegacyLightState applies cmd through the v1 API. TransitionTime is read as
// tenths of a second. The result maps each changed attribute address to its new value.
func (b *Bridge) SetLegacyLightState(ctx context.Context, lightID string, cmd CommandLight) (map[string]any, error) {
	if !isLegacyID(lightID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceID, lightID)
	}
	return b.putLegacy(ctx, legacyPath(b.applicationKey, "lights/%s/state", lightID), cmd)
}

// SetLegacyGroupState applies cmd to a v1 group.
func (b *Bridge) SetLegacyGroupState(ctx context.Context, groupID string, cmd CommandLight) (map[string]any, error) {
	if !isLegacyID(groupID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceID, groupID)
	}
	return b.putLegacy(ctx, legacyPath(b.applicationKey, "groups/%s/action", groupID), cmd)
}

// isLegacyID reports whether id is a v1 numeric identifier.
func isLegacyID(id string) bool {
	_, err := strconv.ParseUint(id, 10, 32)
	return err == nil
}

type legacySuccess struct {
	Success map[string]json.RawMessage `json:"success"`
}

func (b *Bridge) putLegacy(ctx context.Context, path string, cmd CommandLight) (map[string]any, error) {
	raw, err := b.PUT(ctx, path, cmd)
	if err != nil {
		return nil, err
	}

	last, err := DecodeLegacy[legacySuccess](raw)
	if err != nil {
		return nil, err
	}

	// one success entry per changed attribute
	entries := []legacySuccess{last}
	var all []legacySuccess
	if json.Unmarshal(raw, &all) == nil {
		entries = all
	}

	changes := map[string]any{}
	for _, entry := range entries {
		for address, v := range entry.Success {
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				return nil, &SerializationError{Err: err}
			}
			changes[address] = value
		}
	}
	return changes, nil
}
