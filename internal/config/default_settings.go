package config

import "github.com/tauraamui/framecv/pkg/configdef"

type defaultSettingKey uint

const (
	FLAVOR         defaultSettingKey = 0x0
	TESTCARDWIDTH  defaultSettingKey = 0x1
	TESTCARDHEIGHT defaultSettingKey = 0x2
	TESTCARDTITLE  defaultSettingKey = 0x3
	CAPTUREFRAMES  defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FLAVOR:         "iplimage",
	TESTCARDWIDTH:  600,
	TESTCARDHEIGHT: 400,
	TESTCARDTITLE:  "FRAMECV",
	CAPTUREFRAMES:  5,
}

func applyDefaults(values *configdef.Values) {
	if len(values.Flavor) == 0 {
		values.Flavor = defaultSettings[FLAVOR].(string)
	}
	if values.CaptureFrames == 0 {
		values.CaptureFrames = defaultSettings[CAPTUREFRAMES].(int)
	}
	if values.TestCard.Width == 0 {
		values.TestCard.Width = defaultSettings[TESTCARDWIDTH].(int)
	}
	if values.TestCard.Height == 0 {
		values.TestCard.Height = defaultSettings[TESTCARDHEIGHT].(int)
	}
	if len(values.TestCard.Title) == 0 {
		values.TestCard.Title = defaultSettings[TESTCARDTITLE].(string)
	}
}
