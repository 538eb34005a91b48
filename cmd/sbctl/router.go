package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/orchestrator"
	"github.com/zetanet/southbound/routeros"
)

var routerCmd = &cobra.Command{
	Use:   "router",
	Short: "MikroTik operations for a site",
}

var routerTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe the site's router",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := lookupSite()
		if err != nil {
			return err
		}
		cfg, err := orchestrator.SiteResolver{}.RouterFor(site)
		if err != nil {
			return err
		}

		status := routeros.NewClient(cfg).TestConnection(context.Background())
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(status)
		}

		if !status.Connected {
			fmt.Printf("%s: unreachable (%s)\n", status.Host, status.Error)
			return nil
		}
		fmt.Printf("Router: %s\n", status.Host)
		fmt.Printf("Version: %s\n", status.Version)
		fmt.Printf("Board: %s\n", status.BoardName)
		fmt.Printf("Uptime: %s\n", status.Uptime)
		fmt.Printf("CPU load: %s%%\n", status.CPULoad)
		return nil
	},
}

var routerProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the connection's router objects",
	Long: `Create the router objects a connection needs: PPPoE secret and
queue for fiber, queue and address-list entry for antenna, DHCP lease
and queue for dhcp_fiber. The connection comes from a YAML file
(--connection).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, conn, plan, err := loadTarget()
		if err != nil {
			return err
		}
		log := newLogger()
		defer func() { _ = log.Sync() }()

		orch := newOrchestrator(log)
		ctx := context.Background()

		var res *orchestrator.Result
		switch conn.Type {
		case model.AccessFiber:
			res = orch.ProvisionFiberFromConnection(ctx, site, conn, plan)
		case model.AccessAntenna:
			res = orch.ProvisionAntennaFromConnection(ctx, site, conn, plan)
		case model.AccessDHCPFiber:
			res = orch.ProvisionDHCPFromConnection(ctx, site, conn, plan)
		default:
			return fmt.Errorf("unknown connection type %q", conn.Type)
		}
		return printResult(res)
	},
}

var routerDeprovisionCmd = &cobra.Command{
	Use:   "deprovision",
	Short: "Remove the connection's router objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, conn, _, err := loadTarget()
		if err != nil {
			return err
		}
		log := newLogger()
		defer func() { _ = log.Sync() }()

		res := newOrchestrator(log).DeprovisionConnection(context.Background(), site, conn)
		return printResult(res)
	},
}

var routerSuspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Suspend the connection on its router",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, conn, _, err := loadTarget()
		if err != nil {
			return err
		}
		log := newLogger()
		defer func() { _ = log.Sync() }()

		res := newOrchestrator(log).SuspendConnection(context.Background(), site, conn)
		return printResult(res)
	},
}

var routerReactivateCmd = &cobra.Command{
	Use:   "reactivate",
	Short: "Reactivate a suspended connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, conn, _, err := loadTarget()
		if err != nil {
			return err
		}
		log := newLogger()
		defer func() { _ = log.Sync() }()

		res := newOrchestrator(log).ReactivateConnection(context.Background(), site, conn)
		return printResult(res)
	},
}

func init() {
	for _, c := range []*cobra.Command{routerProvisionCmd, routerDeprovisionCmd, routerSuspendCmd, routerReactivateCmd} {
		c.Flags().StringVar(&connectionPath, "connection", "", "connection YAML file")
	}
	routerCmd.AddCommand(routerTestCmd, routerProvisionCmd, routerDeprovisionCmd, routerSuspendCmd, routerReactivateCmd)
}

// Connection file shapes.
//
//	connection:
//	  client_name: Juan Perez
//	  type: fiber
//	  pppoe_username: jperez
//	  pppoe_password: secret
//	  ip_address: 100.64.0.20
//	plan:
//	  upload: 25M
//	  download: 50M
type connectionFile struct {
	Connection connectionSpec `yaml:"connection"`
	Plan       planSpec       `yaml:"plan"`
}

type connectionSpec struct {
	ID         int    `yaml:"id"`
	ClientName string `yaml:"client_name"`
	Type       string `yaml:"type"`

	PPPoEUsername string `yaml:"pppoe_username"`
	PPPoEPassword string `yaml:"pppoe_password"`
	IPAddress     string `yaml:"ip_address"`
	MAC           string `yaml:"mac"`

	ONUSerial   string `yaml:"onu_serial"`
	ONULocation string `yaml:"onu_location"`
	ONUType     string `yaml:"onu_type"`
	ServiceVLAN int    `yaml:"service_vlan"`
	ONUID       int    `yaml:"onu_id"`
}

type planSpec struct {
	Name       string `yaml:"name"`
	Upload     string `yaml:"upload"`
	Download   string `yaml:"download"`
	PPPProfile string `yaml:"ppp_profile"`

	BurstUpload        string `yaml:"burst_upload"`
	BurstDownload      string `yaml:"burst_download"`
	BurstThresholdUp   string `yaml:"burst_threshold_up"`
	BurstThresholdDown string `yaml:"burst_threshold_down"`
	BurstTime          string `yaml:"burst_time"`
}

func loadConnectionFile(path string) (*model.Connection, *model.Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read connection file: %w", err)
	}

	var f connectionFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, nil, fmt.Errorf("parse connection file: %w", err)
	}

	typ := model.AccessType(f.Connection.Type)
	switch typ {
	case model.AccessFiber, model.AccessAntenna, model.AccessDHCPFiber:
	default:
		return nil, nil, fmt.Errorf("connection type %q: want fiber, antenna or dhcp_fiber", f.Connection.Type)
	}

	conn := &model.Connection{
		ID:         f.Connection.ID,
		ClientName: f.Connection.ClientName,
		Type:       typ,

		PPPoEUsername: f.Connection.PPPoEUsername,
		PPPoEPassword: f.Connection.PPPoEPassword,
		IPAddress:     f.Connection.IPAddress,
		MAC:           f.Connection.MAC,

		ONUSerial:   f.Connection.ONUSerial,
		ONULocation: f.Connection.ONULocation,
		ONUType:     f.Connection.ONUType,
		ServiceVLAN: f.Connection.ServiceVLAN,
		ONUID:       f.Connection.ONUID,
	}
	if conn.ONUID != 0 {
		conn.ONUAuthorized = true
	}

	plan := &model.Plan{
		Name:          f.Plan.Name,
		UploadSpeed:   f.Plan.Upload,
		DownloadSpeed: f.Plan.Download,
		PPPProfile:    f.Plan.PPPProfile,

		BurstUpload:        f.Plan.BurstUpload,
		BurstDownload:      f.Plan.BurstDownload,
		BurstThresholdUp:   f.Plan.BurstThresholdUp,
		BurstThresholdDown: f.Plan.BurstThresholdDown,
		BurstTime:          f.Plan.BurstTime,
	}
	return conn, plan, nil
}

func loadTarget() (*model.Site, *model.Connection, *model.Plan, error) {
	site, err := lookupSite()
	if err != nil {
		return nil, nil, nil, err
	}
	if connectionPath == "" {
		return nil, nil, nil, fmt.Errorf("--connection is required")
	}
	conn, plan, err := loadConnectionFile(connectionPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return site, conn, plan, nil
}
