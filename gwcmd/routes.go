package gwcmd

import (
	"context"
	"io"
	"strings"

	"github.com/advdv/apigw/gwroute"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"
)

func (c *commands) routesCmd() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "List the introspected routes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "by-tag",
				Usage: "Group routes by tag, omitting untagged routes",
			},
		},
		Action: c.runRoutes,
	}
}

type routesOptions struct {
	ByTag  bool
	Output io.Writer
}

func (c *commands) runRoutes(ctx context.Context, cmd *cli.Command) error {
	return c.doRoutes(ctx, routesOptions{
		ByTag:  cmd.Bool("by-tag"),
		Output: c.output,
	})
}

func (c *commands) doRoutes(_ context.Context, opts routesOptions) error {
	routes, err := c.routes()
	if err != nil {
		return err
	}

	if !opts.ByTag {
		writeOutputf(opts.Output, "%s\n", routeTable(routes))
		return nil
	}

	for _, g := range gwroute.GroupByTag(routes) {
		writeOutputf(opts.Output, "%s\n%s\n", g.Tag, routeTable(g.Routes))
	}
	return nil
}

func routeTable(routes []gwroute.Route) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("METHOD", "PATH", "NAME", "API KEY", "REQUEST", "PARAMS")

	for _, r := range routes {
		req := "-"
		if r.Request != nil {
			req = r.Request.Name
		}

		params := make([]string, 0, len(r.Params))
		for _, p := range r.Params {
			params = append(params, string(p.In)+":"+p.Name)
		}

		t.Row(string(r.Method), r.Path.String(), r.Name, keyLabel(r.APIKey), req, strings.Join(params, " "))
	}
	return t.String()
}

func keyLabel(k gwroute.KeyRequirement) string {
	switch k {
	case gwroute.KeyRequired:
		return "required"
	case gwroute.KeyNotRequired:
		return "none"
	default:
		return "default"
	}
}
