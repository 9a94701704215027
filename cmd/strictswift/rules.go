package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thomasaiwilcox/strictswift/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	eng := newEngine(config.Default())

	rules := eng.Rules().All()
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tENABLED\tNAME")
	for _, r := range rules {
		enabled := "yes"
		if !r.EnabledByDefault() {
			enabled = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID(), r.Category(), r.DefaultSeverity(), enabled, r.Name())
	}
	return w.Flush()
}
