package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/zetanet/southbound/model"
)

// Inventory file shapes. YAML keys follow the usual snake_case so the
// file reads like any other ops config:
//
//	sites:
//	  - name: centro
//	    router:
//	      host: 10.0.0.1
//	      username: api
//	      password: secret
//	    olt:
//	      brand: zte
//	      host: 10.0.0.2
//	      username: admin
//	      password: secret
//	      vlan: 100
type inventorySite struct {
	ID     int              `mapstructure:"id"`
	Name   string           `mapstructure:"name"`
	Router *inventoryRouter `mapstructure:"router"`
	OLT    *inventoryOLT    `mapstructure:"olt"`
}

type inventoryRouter struct {
	Host     string `mapstructure:"host"`
	APIPort  int    `mapstructure:"api_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type inventoryOLT struct {
	Brand    string `mapstructure:"brand"`
	Host     string `mapstructure:"host"`
	SSHPort  int    `mapstructure:"ssh_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	SNMPPort           int    `mapstructure:"snmp_port"`
	SNMPCommunity      string `mapstructure:"snmp_community"`
	SNMPWriteCommunity string `mapstructure:"snmp_write_community"`

	LineProfile    string `mapstructure:"line_profile"`
	ServiceProfile string `mapstructure:"service_profile"`
	VLAN           int    `mapstructure:"vlan"`
	ONUType        string `mapstructure:"onu_type"`
}

func (s *inventorySite) toModel() *model.Site {
	site := &model.Site{ID: s.ID, Name: s.Name}
	if r := s.Router; r != nil {
		site.Router = &model.RouterEquipment{
			Host:     r.Host,
			APIPort:  r.APIPort,
			Username: r.Username,
			Password: r.Password,
			UseTLS:   r.UseTLS,
		}
	}
	if o := s.OLT; o != nil {
		site.OLT = &model.OLTEquipment{
			Brand:    o.Brand,
			Host:     o.Host,
			SSHPort:  o.SSHPort,
			Username: o.Username,
			Password: o.Password,

			SNMPPort:           o.SNMPPort,
			SNMPCommunity:      o.SNMPCommunity,
			SNMPWriteCommunity: o.SNMPWriteCommunity,

			DefaultLineProfile:    o.LineProfile,
			DefaultServiceProfile: o.ServiceProfile,
			DefaultVLAN:           o.VLAN,
			DefaultONUType:        o.ONUType,
		}
	}
	return site
}

// FileInventory is a YAML site inventory. The platform hands sites
// straight from its database; the file form exists so sbctl and tests
// can feed the same resolver path without one.
type FileInventory struct {
	sites map[string]*model.Site
}

// LoadInventory reads a YAML site inventory from path.
func LoadInventory(path string) (*FileInventory, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var raw []inventorySite
	if err := v.UnmarshalKey("sites", &raw); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	inv := &FileInventory{sites: make(map[string]*model.Site, len(raw))}
	for i := range raw {
		s := &raw[i]
		if s.Name == "" {
			return nil, fmt.Errorf("parse inventory: site %d has no name", i)
		}
		key := strings.ToLower(s.Name)
		if _, dup := inv.sites[key]; dup {
			return nil, fmt.Errorf("parse inventory: duplicate site %q", s.Name)
		}
		inv.sites[key] = s.toModel()
	}
	return inv, nil
}

// SiteByName looks up a site case-insensitively. The error lists the
// known sites so a typo is obvious from the message alone.
func (inv *FileInventory) SiteByName(name string) (*model.Site, error) {
	s, ok := inv.sites[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("site %q not in inventory (have: %s)",
			name, strings.Join(inv.names(), ", "))
	}
	return s, nil
}

func (inv *FileInventory) names() []string {
	names := make([]string, 0, len(inv.sites))
	for _, s := range inv.sites {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
