package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zetanet/southbound"
	"github.com/zetanet/southbound/orchestrator"
	"github.com/zetanet/southbound/types"
)

var (
	onuLocation string
	onuID       int
	useSNMP     bool
	execTimeout time.Duration
)

var oltCmd = &cobra.Command{
	Use:   "olt",
	Short: "OLT operations for a site",
}

func siteDriver() (*types.OLTConfig, types.Driver, error) {
	site, err := lookupSite()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := orchestrator.SiteResolver{}.OLTFor(site)
	if err != nil {
		return nil, nil, err
	}
	drv, err := southbound.NewDriver(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, drv, nil
}

var oltTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe the site's OLT",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, drv, err := siteDriver()
		if err != nil {
			return err
		}

		status := drv.TestConnection(context.Background())
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(status)
		}

		if !status.Connected {
			fmt.Printf("%s: unreachable (%s)\n", status.Host, status.Error)
			return nil
		}
		fmt.Printf("OLT: %s (%s)\n", status.Identity, status.Host)
		fmt.Printf("Vendor: %s\n", status.Vendor)
		if status.Version != "" {
			fmt.Printf("Version: %s\n", firstLine(status.Version))
		}
		return nil
	},
}

var oltDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List unauthorized ONUs waiting on the PON",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, drv, err := siteDriver()
		if err != nil {
			return err
		}

		onus, err := drv.ListUnauthorizedONUs(context.Background())
		if err != nil {
			return printError(err)
		}
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(onus)
		}

		if len(onus) == 0 {
			fmt.Println("no unauthorized onus")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERIAL\tLOCATION\tSTATUS\tMODEL")
		fmt.Fprintln(w, "------\t--------\t------\t-----")
		for _, o := range onus {
			fmt.Fprintf(w, "%s\t%d/%d/%d\t%s\t%s\n",
				o.Serial, o.Frame, o.Slot, o.Port, dashIfEmpty(o.Status), dashIfEmpty(o.Model))
		}
		return w.Flush()
	},
}

var oltOpticalCmd = &cobra.Command{
	Use:   "optical",
	Short: "Read optical diagnostics for one ONU",
	Long: `Read optical diagnostics for one ONU, addressed by its PON port
(--loc, "slot/port" or "frame/slot/port") and device ID (--onu).

--snmp reads over the SNMP side channel instead of the shell, on
vendors that expose one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, slot, port, err := types.ParseFrameSlotPort(onuLocation)
		if err != nil {
			return err
		}
		if onuID <= 0 {
			return fmt.Errorf("--onu is required")
		}

		cfg, drv, err := siteDriver()
		if err != nil {
			return err
		}

		ctx := context.Background()
		var info *types.OpticalInfo
		if useSNMP {
			sd, ok := drv.(interface {
				GetONUOpticalInfoSNMP(ctx context.Context, slot, port, onuID int) (*types.OpticalInfo, error)
			})
			if !ok {
				return fmt.Errorf("%s has no snmp optical path", cfg.Brand)
			}
			info, err = sd.GetONUOpticalInfoSNMP(ctx, slot, port, onuID)
		} else {
			info, err = drv.GetONUOpticalInfo(ctx, slot, port, onuID)
		}
		if err != nil {
			return printError(err)
		}
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(info)
		}

		fmt.Printf("ONU %d at %s\n", onuID, onuLocation)
		fmt.Printf("RX power: %s\n", fmtReading(info.RxPowerDBm, "dBm"))
		fmt.Printf("TX power: %s\n", fmtReading(info.TxPowerDBm, "dBm"))
		fmt.Printf("Temperature: %s\n", fmtReading(info.Temperature, "C"))
		fmt.Printf("Voltage: %s\n", fmtReading(info.Voltage, "V"))
		if info.DistanceM != nil {
			fmt.Printf("Distance: %d m\n", *info.DistanceM)
		} else {
			fmt.Println("Distance: -")
		}
		fmt.Printf("Signal: %s\n", dashIfEmpty(info.SignalQuality))
		return nil
	},
}

var oltExecCmd = &cobra.Command{
	Use:   "exec -- <command>",
	Short: "Run a raw command on the OLT shell",
	Long: `Run a raw diagnostic command on the OLT shell and print its
output. This is the one command whose device failures set the exit
status: it exists for scripting and a silent wrong answer would be
worse than a loud one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, drv, err := siteDriver()
		if err != nil {
			return err
		}

		out, err := drv.ExecuteCommand(context.Background(), strings.Join(args, " "), execTimeout)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	oltOpticalCmd.Flags().StringVar(&onuLocation, "loc", "", `PON port, "slot/port" or "frame/slot/port"`)
	oltOpticalCmd.Flags().IntVar(&onuID, "onu", 0, "device-assigned ONU ID")
	oltOpticalCmd.Flags().BoolVar(&useSNMP, "snmp", false, "read over SNMP instead of the shell")
	oltExecCmd.Flags().DurationVar(&execTimeout, "timeout", 30*time.Second, "command timeout")

	oltCmd.AddCommand(oltTestCmd, oltDiscoverCmd, oltOpticalCmd, oltExecCmd)
}

func fmtReading(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", *v, unit)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
