package orchestrator

import (
	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/routeros"
	"github.com/zetanet/southbound/types"
)

// CredentialResolver turns a site record into device credentials.
// Implementations return *types.NotConfiguredError when the site has
// no equipment of the requested kind, which helpers surface as a plain
// error result rather than a transport failure.
type CredentialResolver interface {
	// RouterFor returns the router API parameters for a site.
	RouterFor(site *model.Site) (routeros.Config, error)

	// OLTFor returns the OLT access parameters for a site.
	OLTFor(site *model.Site) (*types.OLTConfig, error)
}

// SiteResolver resolves credentials straight from the equipment blocks
// on the site record. It is the production resolver: the platform
// loads the site from its database and hands it over as-is.
type SiteResolver struct{}

func (SiteResolver) RouterFor(site *model.Site) (routeros.Config, error) {
	r := site.Router
	if r == nil || r.Host == "" {
		return routeros.Config{}, &types.NotConfiguredError{Site: site.Name, Device: "router"}
	}
	return routeros.Config{
		Host:     r.Host,
		Port:     r.APIPort,
		Username: r.Username,
		Password: r.Password,
		UseTLS:   r.UseTLS,
	}, nil
}

func (SiteResolver) OLTFor(site *model.Site) (*types.OLTConfig, error) {
	o := site.OLT
	if o == nil || o.Host == "" || o.Brand == "" {
		return nil, &types.NotConfiguredError{Site: site.Name, Device: "OLT"}
	}
	return &types.OLTConfig{
		Name:               site.Name,
		Brand:              o.Brand,
		Address:            o.Host,
		SSHPort:            o.SSHPort,
		Username:           o.Username,
		Password:           o.Password,
		SNMPPort:           o.SNMPPort,
		SNMPCommunity:      o.SNMPCommunity,
		SNMPWriteCommunity: o.SNMPWriteCommunity,

		DefaultLineProfile:    o.DefaultLineProfile,
		DefaultServiceProfile: o.DefaultServiceProfile,
		DefaultVLAN:           o.DefaultVLAN,
		DefaultONUType:        o.DefaultONUType,
	}, nil
}
