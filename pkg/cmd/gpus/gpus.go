// Package gpus lists the GPU types that can back a pod
package gpus

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	long = `List GPU types available on RunPod.

Filter by name, memory and cloud. Sort results by different columns.`

	example = `
  # List all GPU types
  runpod gpus

  # Filter by name (case-insensitive, partial match)
  runpod gpus --name a100

  # Only GPUs with at least 48GB of memory, cheapest first
  runpod gpus --min-memory 48 --sort price

  # Only GPUs offered in secure cloud
  runpod gpus --secure`
)

type GPUsStore interface {
	GetGPUTypes() ([]entity.GPUType, error)
}

func NewCmdGPUs(t *terminal.Terminal, store GPUsStore) *cobra.Command {
	var opts GPUsOptions

	cmd := &cobra.Command{
		Use:                   "gpus",
		Aliases:               []string{"gpu"},
		DisableFlagsInUseLine: true,
		Short:                 "List available GPU types",
		Long:                  long,
		Example:               example,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunGPUs(t, store, opts)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Filter by GPU id or display name (case-insensitive, partial match)")
	cmd.Flags().IntVarP(&opts.MinMemory, "min-memory", "m", 0, "Filter by minimum GPU memory (in GB)")
	cmd.Flags().StringVarP(&opts.SortBy, "sort", "s", "memory", "Sort by column: id, name, memory, price")
	cmd.Flags().BoolVarP(&opts.Descending, "desc", "d", false, "Sort in descending order")
	cmd.Flags().BoolVar(&opts.SecureOnly, "secure", false, "Show only GPUs offered in secure cloud")
	cmd.Flags().BoolVar(&opts.CommunityOnly, "community", false, "Show only GPUs offered in community cloud")

	return cmd
}

type GPUsOptions struct {
	Name          string
	MinMemory     int
	SortBy        string
	Descending    bool
	SecureOnly    bool
	CommunityOnly bool
}

var sortColumns = []string{"id", "name", "memory", "price"}

func (o GPUsOptions) Validate() error {
	if o.SecureOnly && o.CommunityOnly {
		return rperrors.NewValidationError("--secure and --community cannot be used together")
	}
	if o.SortBy != "" && !lo.Contains(sortColumns, strings.ToLower(o.SortBy)) {
		return rperrors.NewValidationError(fmt.Sprintf("unknown sort column %q, expected one of: %s", o.SortBy, strings.Join(sortColumns, ", ")))
	}
	if o.MinMemory < 0 {
		return rperrors.NewValidationError("--min-memory must not be negative")
	}
	return nil
}

func RunGPUs(t *terminal.Terminal, store GPUsStore, opts GPUsOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	gpuTypes, err := store.GetGPUTypes()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	if len(gpuTypes) == 0 {
		t.Vprint(t.Yellow("No GPU types found."))
		return nil
	}

	filtered := FilterGPUTypes(gpuTypes, opts)
	if len(filtered) == 0 {
		t.Vprint(t.Yellow("No GPU types match the specified filters."))
		return nil
	}

	SortGPUTypes(filtered, opts.SortBy, opts.Descending)
	displayGPUTable(t.VerboseWriter(), t, filtered)
	t.Vprintf("\nFound %d GPU type(s)\n", len(filtered))
	return nil
}

func FilterGPUTypes(gpuTypes []entity.GPUType, opts GPUsOptions) []entity.GPUType {
	name := strings.ToLower(opts.Name)
	return lo.Filter(gpuTypes, func(g entity.GPUType, _ int) bool {
		if name != "" &&
			!strings.Contains(strings.ToLower(g.ID), name) &&
			!strings.Contains(strings.ToLower(g.DisplayName), name) {
			return false
		}
		if opts.MinMemory > 0 && g.MemoryInGb < opts.MinMemory {
			return false
		}
		if opts.SecureOnly && !g.SecureCloud {
			return false
		}
		if opts.CommunityOnly && !g.CommunityCloud {
			return false
		}
		return true
	})
}

// SortGPUTypes sorts in place. Ties keep the catalog order.
func SortGPUTypes(gpuTypes []entity.GPUType, sortBy string, descending bool) {
	key := func(i, j int) (less bool, equal bool) {
		a, b := gpuTypes[i], gpuTypes[j]
		switch strings.ToLower(sortBy) {
		case "id":
			return strings.ToLower(a.ID) < strings.ToLower(b.ID), strings.EqualFold(a.ID, b.ID)
		case "name":
			return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName), strings.EqualFold(a.DisplayName, b.DisplayName)
		case "price":
			return a.GetPricePerHour() < b.GetPricePerHour(), a.GetPricePerHour() == b.GetPricePerHour()
		default: // memory
			return a.MemoryInGb < b.MemoryInGb, a.MemoryInGb == b.MemoryInGb
		}
	}
	sort.SliceStable(gpuTypes, func(i, j int) bool {
		less, equal := key(i, j)
		if descending {
			return !less && !equal
		}
		return less
	})
}

func displayGPUTable(w io.Writer, t *terminal.Terminal, gpuTypes []entity.GPUType) {
	ta := table.NewWriter()
	ta.SetOutputMirror(w)
	ta.Style().Options = getTableOptions()

	ta.AppendHeader(table.Row{"ID", "Name", "Memory", "$/hr", "Secure", "Community"})
	for _, g := range gpuTypes {
		ta.AppendRow(table.Row{
			g.ID,
			g.DisplayName,
			formatMemory(g.MemoryInGb),
			formatPrice(g.GetPricePerHour()),
			formatAvailable(t, g.SecureCloud),
			formatAvailable(t, g.CommunityCloud),
		})
	}
	ta.Render()
}

func getTableOptions() table.Options {
	options := table.OptionsDefault
	options.DrawBorder = false
	options.SeparateColumns = false
	options.SeparateRows = false
	options.SeparateHeader = false
	return options
}

func formatMemory(gb int) string {
	if gb == 0 {
		return "-"
	}
	return fmt.Sprintf("%dGB", gb)
}

func formatPrice(price float64) string {
	if price == 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", price)
}

func formatAvailable(t *terminal.Terminal, available bool) string {
	if available {
		return t.Green("Yes")
	}
	return t.Red("No")
}
