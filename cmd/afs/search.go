package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	"github.com/ajitpratap0/afs-connector/pkg/config"
	"github.com/ajitpratap0/afs-connector/pkg/connector/search"
	"github.com/ajitpratap0/afs-connector/pkg/facet"
)

func (c *cli) searchCommand() *cobra.Command {
	var (
		feeds      []string
		filters    []string
		facets     []string
		page       int
		replies    int
		lang       string
		sortOrder  string
		record     bool
		facetOrder []string
		facetMode  string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Query the search web service",
		Long: `Query the search web service and print the reply.

Replies are printed in the order sent by AFS. --facet-order decodes the reply
into typed records and rearranges the facets of every feed:

  afs search --feed catalog --facet-order brand,color --facet-mode SMOOTH shoes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := facet.ParseSortMode(facetMode)
			if err != nil {
				return afserrors.Wrap(err, afserrors.ErrorTypeValidation, "invalid --facet-mode")
			}

			q := search.NewQuery(strings.Join(args, " "))
			for _, feed := range feeds {
				q.Feed(feed)
			}
			for _, filter := range filters {
				q.Filter(filter)
			}
			for _, f := range facets {
				q.Facet(f)
			}
			if page > 0 {
				q.Page(page)
			}
			if replies > 0 {
				q.Replies(replies)
			}
			if lang != "" {
				q.Lang(lang)
			}
			if sortOrder != "" {
				q.Sort(sortOrder)
			}
			params := q.Parameters()
			if err := extraParams(cmd, params); err != nil {
				return err
			}

			return c.run(cmd, func(ctx context.Context, cfg *config.File, log *zap.Logger) (interface{}, error) {
				if !record && len(facetOrder) == 0 {
					conn, err := search.NewMap(cfg.Connector)
					if err != nil {
						return nil, err
					}
					return conn.Send(ctx, params, c.caller()), nil
				}

				conn, err := search.New(cfg.Connector)
				if err != nil {
					return nil, err
				}
				r := conn.Send(ctx, params, c.caller())
				if r != nil && len(facetOrder) > 0 {
					for i := range r.ReplySets {
						r.ReplySets[i].OrderFacets(facetOrder, mode)
					}
					log.Debug("facets ordered",
						zap.Strings("order", facetOrder),
						zap.Stringer("mode", mode))
				}
				return r, nil
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&feeds, "feed", nil, "Feed to query (repeatable)")
	f.StringArrayVar(&filters, "filter", nil, "Filter expression (repeatable)")
	f.StringArrayVar(&facets, "facet", nil, "Facet option (repeatable)")
	f.IntVar(&page, "page", 0, "Reply page, starting at 1")
	f.IntVar(&replies, "replies", 0, "Replies per page")
	f.StringVar(&lang, "lang", "", "Query language")
	f.StringVar(&sortOrder, "sort", "", "Sort order, e.g. price,ASC")
	f.BoolVar(&record, "record", false, "Decode the reply into typed records")
	f.StringSliceVar(&facetOrder, "facet-order", nil, "Facet ids in the order to display")
	f.StringVar(&facetMode, "facet-mode", facet.Smooth.String(), "Facet ordering mode (STRICT or SMOOTH)")
	return cmd
}
