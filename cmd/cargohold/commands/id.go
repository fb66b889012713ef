package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncobase/cargohold/snowflake"
	"github.com/spf13/cobra"
)

func newIDCommand(opts *options) *cobra.Command {
	var (
		count  int
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "id",
		Short: "Mint keys with the configured worker and datacenter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			g, err := snowflake.New(cfg.Snowflake.WorkerID, cfg.Snowflake.DatacenterID)
			if err != nil {
				return err
			}
			keys, err := g.GenerateBatch(count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range keys {
				if prefix != "" {
					fmt.Fprintln(out, snowflake.GeneratePrefixedID(prefix, key))
				} else {
					fmt.Fprintln(out, key)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of keys to mint")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "print external ids with this prefix, e.g. file")
	cmd.AddCommand(newIDDecodeCommand())
	return cmd
}

func newIDDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <key|external-id>",
		Short: "Show the timestamp, datacenter, worker and sequence of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, prefix, err := parseKey(args[0])
			if err != nil {
				return err
			}
			id := snowflake.Decompose(key)
			b, err := json.MarshalIndent(struct {
				Prefix string `json:"prefix,omitempty"`
				snowflake.ID
				Time string `json:"time"`
			}{prefix, id, id.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

// parseKey accepts a decimal key or an external id.
func parseKey(s string) (int64, string, error) {
	s = strings.TrimSpace(s)
	if key, err := strconv.ParseInt(s, 10, 64); err == nil {
		return key, "", nil
	}
	prefix, key, err := snowflake.ParseExternalID(s)
	if err != nil {
		return 0, "", err
	}
	return key, prefix, nil
}
