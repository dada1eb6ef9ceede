package commands

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wprefix/internal/layout"
	"wprefix/internal/windowlist"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the windows the switcher offers",
	Long:  "List one entry per application window, in the order the switcher shows them, optionally narrowed by a filter.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("filter", "", "Show only titles matching this text")
	listCmd.Flags().Bool("all", false, "Include entries hidden by the filter")
	listCmd.Flags().String("render", "", "Also draw the list as the switcher lays it out into this PNG file")
}

// listEntry is the YAML output of the list command.
type listEntry struct {
	Number   int    `yaml:"number,omitempty"`
	Window   string `yaml:"window"`
	Title    string `yaml:"title"`
	Untitled bool   `yaml:"untitled,omitempty"`
	Shown    bool   `yaml:"shown"`
}

type listOutput struct {
	Filter  string      `yaml:"filter,omitempty"`
	Message string      `yaml:"message,omitempty"`
	Entries []listEntry `yaml:"entries"`
}

func runList(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	all, _ := cmd.Flags().GetBool("all")
	render, _ := cmd.Flags().GetString("render")

	api := newWindowAPI()
	icons, err := newIconManager(api)
	if err != nil {
		return err
	}
	defer icons.Close()

	list, err := windowlist.NewEnumerator(api, icons, logger).Build()
	if err != nil {
		return err
	}
	defer list.Release()
	list.Filter(filter)

	if render != "" {
		if err := renderList(list, render); err != nil {
			return err
		}
	}

	return printYAML(cmd.OutOrStdout(), newListOutput(list, filter, all))
}

func newListOutput(list *windowlist.List, filter string, all bool) listOutput {
	out := listOutput{
		Filter:  filter,
		Message: list.EmptyMessage(),
		Entries: []listEntry{},
	}

	shown := 0
	for _, e := range list.Entries() {
		if !e.Visible && !all {
			continue
		}
		entry := listEntry{
			Window:   e.Window.String(),
			Title:    e.Title,
			Untitled: !e.HasTitle(),
			Shown:    e.Visible,
		}
		if e.Visible {
			shown++
			entry.Number = shown
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

func renderList(list *windowlist.List, path string) error {
	img := layout.Render(list, layout.NewFaceMeasurer(nil))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
