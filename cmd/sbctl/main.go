// sbctl drives the same device automation the platform uses, from the
// command line: MikroTik provisioning over the binary API and OLT ONU
// management over vendor shells. Sites come from a YAML inventory.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/orchestrator"
)

var (
	inventoryPath  string
	siteName       string
	connectionPath string
	jsonOutput     bool
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "sbctl",
	Short: "Operate site routers and OLTs",
	Long: `sbctl drives the same device automation the platform uses:
MikroTik provisioning over the binary API and OLT ONU management over
vendor shells.

Sites come from a YAML inventory (--inventory). Device trouble is
reported in the command output, not the exit status; only usage errors
and "olt exec" failures exit non-zero.

Examples:
  sbctl --inventory sites.yaml router test --site centro
  sbctl router provision --site centro --connection jperez.yaml
  sbctl olt discover --site centro
  sbctl olt optical --site centro --loc 0/4/2 --onu 7
  sbctl olt exec --site centro -- "show version"`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&inventoryPath, "inventory", "sites.yaml", "site inventory file")
	rootCmd.PersistentFlags().StringVar(&siteName, "site", "", "site name from the inventory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log operation detail to stderr")

	rootCmd.AddCommand(routerCmd)
	rootCmd.AddCommand(oltCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func lookupSite() (*model.Site, error) {
	if siteName == "" {
		return nil, fmt.Errorf("--site is required")
	}
	inv, err := orchestrator.LoadInventory(inventoryPath)
	if err != nil {
		return nil, err
	}
	return inv.SiteByName(siteName)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newOrchestrator(log *zap.Logger) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.SiteResolver{}, orchestrator.WithLogger(log))
}

// printResult renders a helper outcome. Device failures stay in the
// output; the command itself still succeeds.
func printResult(res *orchestrator.Result) error {
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(res)
	}

	fmt.Printf("status: %s\n", res.Status)
	if res.Error != "" {
		fmt.Printf("error: %s\n", res.Error)
	}
	if len(res.Details) > 0 {
		b, err := json.MarshalIndent(res.Details, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}

// printError reports a device failure in the result shape without
// touching the exit status.
func printError(err error) error {
	return printResult(&orchestrator.Result{
		Status: orchestrator.StatusError,
		Error:  err.Error(),
	})
}
