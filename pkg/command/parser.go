// Package command parses the short light commands typed on the command line
// into hue.CommandLight values.
//
// The accepted forms, tried in this order:
//
//	on | off
//	B:H:S       brightness (0-254), hue (0-65535), saturation (0-254)
//	NNNNMK:B    mired colour temperature and brightness
//	NNNNK:B     Kelvin colour temperature (exactly four digits) and brightness
//	RRGGBB      hex colour
//	0.x,0.y[:B] CIE xy chromaticity with optional brightness
package command

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wheelibin/hueclient/pkg/hue"
)

var ErrUnrecognised = errors.New("unrecognised light command")

type SyntaxError struct {
	Input string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("can not understand command %q", e.Input)
}

func (e *SyntaxError) Unwrap() error {
	return ErrUnrecognised
}

var (
	tripletPattern = regexp.MustCompile(`^([0-9]{0,3}):([0-9]{0,5}):([0-9]{0,3})$`)
	miredPattern   = regexp.MustCompile(`^([0-9]{0,4})MK:([0-9]{0,5})$`)
	kelvinPattern  = regexp.MustCompile(`^([0-9]{4})K:([0-9]{0,5})$`)
	hexPattern     = regexp.MustCompile(`^([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)
	xyPattern      = regexp.MustCompile(`^(0\.[0-9]+),(0\.[0-9]+)(?::([0-9]{0,5}))?$`)
)

// colour temperature commands force saturation up so they visibly replace a colour
const ctSaturation = 254

// Parse turns input into a command. Numeric groups that do not fit their field
// (e.g. a brightness of 300) leave that field unset instead of failing the parse.
func Parse(input string) (hue.CommandLight, error) {
	input = strings.TrimSpace(input)
	cmd := hue.CommandLight{}

	switch {
	case input == "on":
		return cmd.TurnOn(), nil

	case input == "off":
		return cmd.TurnOff(), nil

	case tripletPattern.MatchString(input):
		m := tripletPattern.FindStringSubmatch(input)
		cmd = cmd.TurnOn()
		cmd.Bri = parseUint8(m[1])
		cmd.Hue = parseUint16(m[2])
		cmd.Sat = parseUint8(m[3])
		return cmd, nil

	case miredPattern.MatchString(input):
		m := miredPattern.FindStringSubmatch(input)
		cmd = cmd.TurnOn().WithSat(ctSaturation)
		if mirek := parseUint16(m[1]); mirek != nil && *mirek > 0 {
			cmd.CT = mirek
		}
		cmd.Bri = parseUint8(m[2])
		return cmd, nil

	case kelvinPattern.MatchString(input):
		m := kelvinPattern.FindStringSubmatch(input)
		cmd = cmd.TurnOn().WithSat(ctSaturation)
		if kelvin, err := strconv.ParseUint(m[1], 10, 32); err == nil && kelvin > 0 {
			if mirek := 1_000_000 / kelvin; mirek <= math.MaxUint16 {
				cmd = cmd.WithCT(uint16(mirek))
			}
		}
		cmd.Bri = parseUint8(m[2])
		return cmd, nil

	case hexPattern.MatchString(input):
		m := hexPattern.FindStringSubmatch(input)
		var rgb [3]uint8
		for i, hex := range m[1:4] {
			c, _ := strconv.ParseUint(hex, 16, 8)
			rgb[i] = uint8(c)
		}
		h, s, v := RGBToHSV(rgb[0], rgb[1], rgb[2])
		return cmd.TurnOn().
			WithHue(uint16(math.Round(h * 65535))).
			WithSat(uint8(math.Round(s * 255))).
			WithBri(uint8(math.Round(v * 255))), nil

	case xyPattern.MatchString(input):
		m := xyPattern.FindStringSubmatch(input)
		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			return hue.CommandLight{}, &SyntaxError{Input: input}
		}
		cmd = cmd.TurnOn().WithXY(x, y)
		cmd.Bri = parseUint8(m[3])
		return cmd, nil
	}

	return hue.CommandLight{}, &SyntaxError{Input: input}
}

// ParseArgs parses a command line of the form <command> [transition]. A transition
// that is not an unsigned 16 bit integer is ignored.
func ParseArgs(args []string) (hue.CommandLight, error) {
	if len(args) == 0 {
		return hue.CommandLight{}, &SyntaxError{}
	}

	cmd, err := Parse(args[0])
	if err != nil {
		return cmd, err
	}

	if len(args) > 1 {
		if transition := parseUint16(args[1]); transition != nil {
			cmd.TransitionTime = transition
		}
	}
	return cmd, nil
}

// RGBToHSV converts 8 bit sRGB to hue, saturation and value, each in [0, 1].
func RGBToHSV(r, g, b uint8) (float64, float64, float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	if max == min {
		return 0, 0, max
	}

	d := max - min
	s := d / max

	var h float64
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	return h / 6, s, max
}

func parseUint8(s string) *uint8 {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil
	}
	u := uint8(v)
	return &u
}

func parseUint16(s string) *uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return nil
	}
	u := uint16(v)
	return &u
}
