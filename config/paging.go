package config

import (
	"github.com/ncobase/cargohold/paging"
	"github.com/spf13/viper"
)

// Paging bounds list page sizes.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// Paginator returns the paginator configured by these bounds.
func (p *Paging) Paginator() paging.Paginator {
	return paging.Paginator{DefaultLimit: p.DefaultLimit, MaxLimit: p.MaxLimit}
}

func getPagingConfig(v *viper.Viper) *Paging {
	return &Paging{
		DefaultLimit: getIntOrDefault(v, "paging.default_limit", paging.DefaultLimit),
		MaxLimit:     getIntOrDefault(v, "paging.max_limit", paging.MaxLimit),
	}
}
