package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wprefix/internal/switcher"
)

var switchCmd = &cobra.Command{
	Use:   "switch N",
	Short: "Switch to the N-th listed window",
	Long: `Switch to the N-th window of the list, counting from 1. As in the switcher,
0 selects the tenth window, and a filter matching a single window switches to
it without looking at N.`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().String("filter", "", "Narrow the list before picking")
}

func runSwitch(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n > 10 {
		return fmt.Errorf("invalid window number %q: use 1-10, or 0 for the tenth", args[0])
	}
	filter, _ := cmd.Flags().GetString("filter")

	api := newWindowAPI()
	icons, err := newIconManager(api)
	if err != nil {
		return err
	}
	service := switcher.NewService(api, icons, nil, logger)
	defer service.Close()

	done, err := service.Show()
	if err != nil || done {
		return err
	}

	if filter != "" {
		if done, err = service.SetFilter(filter); err != nil || done {
			return err
		}
	}

	if done, err = service.SwitchToNth(n); err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("no window number %d (%d shown)", n, len(service.View().Rows))
	}
	return nil
}
