// Package version reports build metadata of the cargohold binary.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/cargohold/version.Version=1.2.3 \
//	  -X github.com/ncobase/cargohold/version.Branch=main \
//	  -X github.com/ncobase/cargohold/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/cargohold/version.BuiltAt=$(date)'"
//
// Unset values fall back to the VCS information the go tool embeds.
package version
