package main

import (
	"fmt"

	"github.com/pscheid92/sentilog/internal/lexicon"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var lexiconDump bool

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect the configured lexicon",
}

var lexiconCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the base and override tables and report the merged size",
	RunE: func(cmd *cobra.Command, args []string) error {
		lex, err := lexicon.Load(cfg.LexiconBasePath, cfg.LexiconOverridePath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if lexiconDump {
			table := make(lexicon.Table, lex.Len())
			for _, e := range lex.Entries() {
				table[e.Word] = e.Weight
			}
			enc := yaml.NewEncoder(out)
			if err := enc.Encode(map[string]lexicon.Table{"words": table}); err != nil {
				return fmt.Errorf("failed to encode lexicon: %w", err)
			}
			return enc.Close()
		}

		fmt.Fprintf(out, "lexicon ok: %d words\n", lex.Len())
		return nil
	},
}

func init() {
	lexiconCheckCmd.Flags().BoolVar(&lexiconDump, "dump", false, "Print the merged table as YAML")
	lexiconCmd.AddCommand(lexiconCheckCmd)
}
