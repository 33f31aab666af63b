package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/afs-connector/pkg/config"
	"github.com/ajitpratap0/afs-connector/pkg/connector/acp"
)

func (c *cli) acpCommand() *cobra.Command {
	var (
		feeds   []string
		replies int
	)

	cmd := &cobra.Command{
		Use:   "acp <text>",
		Short: "Query the auto-complete web service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := acp.Query(args[0], replies, feeds...)
			if err := extraParams(cmd, params); err != nil {
				return err
			}

			return c.run(cmd, func(ctx context.Context, cfg *config.File, log *zap.Logger) (interface{}, error) {
				conn, err := acp.New(cfg.Connector)
				if err != nil {
					return nil, err
				}
				r := conn.Send(ctx, params, c.caller())
				for _, feed := range acp.Feeds(r) {
					log.Debug("suggestions", zap.String("feed", feed), zap.Strings("values", acp.Values(r, feed)))
				}
				return r, nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&feeds, "feed", nil, "Feed to complete from (repeatable)")
	cmd.Flags().IntVar(&replies, "replies", 0, "Maximum suggestions per feed")
	return cmd
}
