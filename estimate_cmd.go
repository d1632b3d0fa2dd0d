package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"costdashboard/collections"
	"costdashboard/services"
)

// newEstimateCmd returns the "estimate" command: it prices a single server
// configuration from flags, or a stored project with --project.
func newEstimateCmd(app *pocketbase.PocketBase) *cobra.Command {
	var (
		config     string
		osName     string
		tier       string
		qty        int
		bwIntl     float64
		bwInternal float64
		project    string
		asJSON     bool
	)
	prices := collections.DefaultUnitPrices()

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price a server configuration or a stored project",
		Example: `  costdashboard estimate --config "CPU: 8 core; RAM 16GB; storage: 100GB" --os "Windows Server" --qty 2
  costdashboard estimate --project "Customer Portal (demo)"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if project != "" {
				return printProjectEstimate(app, out, project, asJSON)
			}
			if config == "" {
				return errors.New("either --config or --project is required")
			}

			st, err := services.ParseStorageTier(tier)
			if err != nil {
				return err
			}
			item := services.InfrastructureItem{
				Category:                   services.CategoryOther,
				OperatingSystem:            osName,
				ConfigurationText:          config,
				Quantity:                   qty,
				StorageTier:                st,
				InternationalBandwidthMbps: bwIntl,
				InternalBandwidthMbps:      bwInternal,
			}
			b := services.CalcItemBreakdown(item, &prices)
			res := services.CalcItemCost(item, &prices)

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"resources": b.Resources, "result": res})
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Resources\t%s\n", services.FormatResources(b.Resources))
			fmt.Fprintf(w, "CPU\t%s\n", services.FormatVND(b.CPU))
			fmt.Fprintf(w, "RAM\t%s\n", services.FormatVND(b.RAM))
			fmt.Fprintf(w, "Storage (%s)\t%s\n", services.StorageTierLabel(st), services.FormatVND(b.Storage))
			fmt.Fprintf(w, "OS licence\t%s\n", services.FormatVND(b.OS))
			fmt.Fprintf(w, "Bandwidth (intl)\t%s\n", services.FormatVND(b.BandwidthInternational))
			fmt.Fprintf(w, "Bandwidth (internal)\t%s\n", services.FormatVND(b.BandwidthInternal))
			fmt.Fprintf(w, "Unit price\t%s\n", services.FormatVND(res.UnitPrice))
			fmt.Fprintf(w, "Total (x%d)\t%s\n", item.EffectiveQuantity(), services.FormatVND(res.TotalPrice))
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&config, "config", "", `server configuration, e.g. "CPU: 8 core; RAM 16GB; storage: 100GB"`)
	f.StringVar(&osName, "os", "", "operating system; names containing \"window\" are billed as Windows")
	f.StringVar(&tier, "tier", string(services.StorageSanAllFlash), "storage tier (diskSanAllFlash, diskSanHdd, objectStorage)")
	f.IntVar(&qty, "qty", 1, "number of identical servers")
	f.Float64Var(&bwIntl, "bw-intl", 0, "international bandwidth in Mbps")
	f.Float64Var(&bwInternal, "bw-internal", 0, "internal bandwidth in Mbps")
	f.StringVar(&project, "project", "", "name of a stored project to estimate")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	f.Float64Var(&prices.CPU, "price-cpu", prices.CPU, "price per CPU core")
	f.Float64Var(&prices.RAM, "price-ram", prices.RAM, "price per GB of RAM")
	f.Float64Var(&prices.DiskSanAllFlash, "price-allflash", prices.DiskSanAllFlash, "price per GB of SAN all-flash storage")
	f.Float64Var(&prices.DiskSanHDD, "price-hdd", prices.DiskSanHDD, "price per GB of SAN HDD storage")
	f.Float64Var(&prices.ObjectStorage, "price-object", prices.ObjectStorage, "price per GB of object storage")
	f.Float64Var(&prices.BandwidthInternational, "price-bw-intl", prices.BandwidthInternational, "price per Mbps of international bandwidth")
	f.Float64Var(&prices.BandwidthInternal, "price-bw-internal", prices.BandwidthInternal, "price per Mbps of internal bandwidth")
	f.Float64Var(&prices.OSWindows, "price-windows", prices.OSWindows, "Windows licence price")
	f.Float64Var(&prices.OSLinux, "price-linux", prices.OSLinux, "Linux licence price")

	return cmd
}

// printProjectEstimate prices a stored project and prints its totals.
func printProjectEstimate(app *pocketbase.PocketBase, out io.Writer, name string, asJSON bool) error {
	collections.Setup(app)

	in, err := collections.LoadProjectInputByName(app, name)
	if err != nil {
		return err
	}
	est := services.EstimateProject(in)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Project\t%s\t\n", est.Name)
	for _, l := range est.InfraLines {
		label := l.Item.DisplayName
		if label == "" {
			label = string(l.Item.Category)
		}
		fmt.Fprintf(w, "  %s (x%d)\t%s\t\n", label, l.Item.EffectiveQuantity(), services.FormatVND(l.Result.TotalPrice))
	}
	fmt.Fprintf(w, "Infrastructure (monthly)\t%s\t\n", services.FormatVND(est.InfraMonthly))
	fmt.Fprintf(w, "Manual labor\t%s\t\n", services.FormatVND(est.ManualLabor))
	fmt.Fprintf(w, "Auto staffing (%s dev mandays)\t%s\t\n",
		services.FormatMandays(est.AutoStaffing.DevTotalMandays), services.FormatVND(est.AutoStaffingCost))
	fmt.Fprintf(w, "Labor total\t%s\t\n", services.FormatVND(est.LaborTotal))
	fmt.Fprintf(w, "Grand total\t%s\t\n", services.FormatVND(est.GrandTotal))
	return w.Flush()
}
