// Package southbound builds vendor dialect drivers for OLT automation.
// The factory is the only place that knows which brand labels map to
// which dialect; everything behind it speaks types.Driver.
package southbound

import (
	"sort"
	"strings"

	"github.com/zetanet/southbound/types"
	"github.com/zetanet/southbound/vendors/vsol"
	"github.com/zetanet/southbound/vendors/zte"
)

// vendorAliases normalizes the brand labels operators type into site
// records. Model numbers map to their vendor family.
var vendorAliases = map[string]types.Vendor{
	"vsol":  types.VendorVSOL,
	"v-sol": types.VendorVSOL,

	"zte":   types.VendorZTE,
	"zxa10": types.VendorZTE,
	"c300":  types.VendorZTE,
	"c320":  types.VendorZTE,
	"c600":  types.VendorZTE,

	"huawei":  types.VendorHuawei,
	"hw":      types.VendorHuawei,
	"ma5608t": types.VendorHuawei,
	"ma5800":  types.VendorHuawei,

	"fiberhome": types.VendorFiberHome,
	"fh":        types.VendorFiberHome,
}

// constructors holds the implemented dialects. Families recognized by
// the alias table but absent here fail with the same typed error as
// unknown labels.
var constructors = map[types.Vendor]func(*types.OLTConfig) types.Driver{
	types.VendorVSOL: func(cfg *types.OLTConfig) types.Driver { return vsol.NewAdapter(cfg) },
	types.VendorZTE:  func(cfg *types.OLTConfig) types.Driver { return zte.NewAdapter(cfg) },
}

// ResolveVendor normalizes a configured brand label to its vendor
// family. The second return reports whether the label is recognized at
// all, implemented or not.
func ResolveVendor(brand string) (types.Vendor, bool) {
	vendor, ok := vendorAliases[strings.ToLower(strings.TrimSpace(brand))]
	return vendor, ok
}

// NewDriver builds the dialect driver for the OLT's configured brand.
// Pure dispatch: no I/O happens until the driver's first operation.
func NewDriver(config *types.OLTConfig) (types.Driver, error) {
	vendor, ok := ResolveVendor(config.Brand)
	if !ok {
		return nil, &types.UnsupportedVendorError{
			Vendor:    config.Brand,
			Supported: SupportedVendors(),
		}
	}

	construct, ok := constructors[vendor]
	if !ok {
		return nil, &types.UnsupportedVendorError{
			Vendor:    config.Brand,
			Supported: SupportedVendors(),
		}
	}
	return construct(config), nil
}

// SupportedVendors lists the implemented dialect families, sorted for
// stable error messages and CLI output.
func SupportedVendors() []string {
	vendors := make([]string, 0, len(constructors))
	for v := range constructors {
		vendors = append(vendors, string(v))
	}
	sort.Strings(vendors)
	return vendors
}
