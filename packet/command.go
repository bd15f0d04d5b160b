package packet

import (
	"bytes"
	"fmt"
)

// CommandType identifies a command or report by the prefix bytes it
// carries on the wire.
type CommandType int

const (
	KeepAlive CommandType = iota
	DIYData
	GetBrightness
	GetColorMode
	GetLightPower
	GetPower
	GetSegmentInfo
	SceneData
	SetBrightness
	SetLightPower
	SetPower
	SetRGB
	SetScene
	SetSegmentsBrightness
	SetSegmentsRGB
	SetSegmentsRGBTemp
)

// Prefix values are part of the device protocol. New commands may be added
// but existing values never change.
var prefixes = map[CommandType][]byte{
	KeepAlive: {0xAA},
	DIYData:   {0xA1},

	GetBrightness:  {0xAA, 0x04},
	GetColorMode:   {0xAA, 0x05, 0x01},
	GetLightPower:  {0xAA, 0x33},
	GetPower:       {0xAA, 0x01},
	GetSegmentInfo: {0xAA, 0xA5},

	SceneData: {0xA3},

	SetBrightness:         {0x33, 0x04},
	SetLightPower:         {0x33, 0x33},
	SetPower:              {0x33, 0x01},
	SetRGB:                {0x33, 0x05, 0x02},
	SetScene:              {0x33, 0x05, 0x04},
	SetSegmentsBrightness: {0x33, 0x05, 0x15, 0x02},
	SetSegmentsRGB:        {0x33, 0x05, 0x0B},
	SetSegmentsRGBTemp:    {0x33, 0x05, 0x15, 0x01},
}

var names = map[CommandType]string{
	KeepAlive:             "KEEP_ALIVE",
	DIYData:               "DIY_DATA",
	GetBrightness:         "GET_BRIGHTNESS",
	GetColorMode:          "GET_COLOR_MODE",
	GetLightPower:         "GET_LIGHT_POWER",
	GetPower:              "GET_POWER",
	GetSegmentInfo:        "GET_SEGMENT_INFO",
	SceneData:             "SCENE_DATA",
	SetBrightness:         "SET_BRIGHTNESS",
	SetLightPower:         "SET_LIGHT_POWER",
	SetPower:              "SET_POWER",
	SetRGB:                "SET_RGB",
	SetScene:              "SET_SCENE",
	SetSegmentsBrightness: "SET_SEGMENTS_BRIGHTNESS",
	SetSegmentsRGB:        "SET_SEGMENTS_RGB",
	SetSegmentsRGBTemp:    "SET_SEGMENTS_RGB_TEMP",
}

// Prefix returns a copy of the command's wire prefix.
func (c CommandType) Prefix() []byte {
	p, ok := prefixes[c]
	if !ok {
		return nil
	}
	return append([]byte(nil), p...)
}

func (c CommandType) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("CommandType(%d)", int(c))
}

// Matches reports whether frame starts with the command's prefix.
func (c CommandType) Matches(frame []byte) bool {
	p, ok := prefixes[c]
	return ok && bytes.HasPrefix(frame, p)
}
