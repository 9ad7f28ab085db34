package config

import (
	"github.com/tauraamui/framecv/internal/config"
	"github.com/tauraamui/framecv/pkg/configdef"
)

func DefaultResolver() configdef.Resolver {
	return config.DefaultResolver()
}

func DefaultCreator() configdef.Creator {
	return config.DefaultCreator()
}
