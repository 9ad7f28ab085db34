package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

type TestCard struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title"`
	Width   int    `json:"width" validate:"gte=1 & lte=4096"`
	Height  int    `json:"height" validate:"gte=1 & lte=4096"`
}

type Values struct {
	Debug         bool     `json:"debug"`
	Flavor        string   `json:"flavor" validate:"one_of=mat,iplimage"`
	Dumps         []string `json:"dumps"`
	Captures      []string `json:"captures"`
	CaptureFrames int      `json:"capture_frames" validate:"gte=1 & lte=1000"`
	TestCard      TestCard `json:"test_card"`
}

// RunValidate checks field constraints then the checks which span fields.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.checkDumps()
}

func (v Values) checkDumps() error {
	const validationErrorHeader = "validation failed: %w"
	for _, d := range v.Dumps {
		if len(d) == 0 {
			return fmt.Errorf(validationErrorHeader, errors.New("dump paths cannot be blank"))
		}
	}
	if hasDupPaths(v.Dumps) {
		return fmt.Errorf(validationErrorHeader, errors.New("dump paths must be unique"))
	}
	return nil
}

func hasDupPaths(paths []string) bool {
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			return true
		}
		seen[p] = struct{}{}
	}
	return false
}
