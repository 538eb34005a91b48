package southbound

import "github.com/zetanet/southbound/types"

// Re-exports from the types sub-package, so callers that only dispatch
// through the factory can depend on the root package alone.

type (
	Vendor           = types.Vendor
	Driver           = types.Driver
	ShellExecutor    = types.ShellExecutor
	SNMPExecutor     = types.SNMPExecutor
	OLTConfig        = types.OLTConfig
	OLTStatus        = types.OLTStatus
	ONUDiscovery     = types.ONUDiscovery
	AuthorizeRequest = types.AuthorizeRequest
	AuthorizeResult  = types.AuthorizeResult
	ONUStatus        = types.ONUStatus
	ONUSummary       = types.ONUSummary
	OpticalInfo      = types.OpticalInfo

	TransportError         = types.TransportError
	AuthError              = types.AuthError
	ProtocolError          = types.ProtocolError
	NotConfiguredError     = types.NotConfiguredError
	UnsupportedVendorError = types.UnsupportedVendorError
	FormatError            = types.FormatError
)

const (
	VendorVSOL      = types.VendorVSOL
	VendorZTE       = types.VendorZTE
	VendorHuawei    = types.VendorHuawei
	VendorFiberHome = types.VendorFiberHome
)
