package envelopes

import (
	"context"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
)

type Command struct {
	*base.Command

	flagFrom    string
	flagFilters filterFlag
}

func (c *Command) Synopsis() string {
	return "List envelope IDs changed since a date"
}

func (c *Command) Help() string {
	return `Usage: docusign envelopes -config=config.hcl [-from=date] [-filter=key=v1,v2 ...]

  List the IDs of envelopes in the account changed on or after -from.
  Dates may be given in most common layouts ("2024-03-01", "March 1, 2024",
  "03/01/2024"). Filters are sent as additional query parameters; repeat
  -filter for several keys.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.FlagSet("envelopes")

	f.StringVar(
		&c.flagFrom, "from", "",
		"Only list envelopes changed on or after this date. Default: "+docusign.DefaultFromDate,
	)
	f.Var(
		&c.flagFilters, "filter",
		"Query filter as key=value[,value...]. May be repeated.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	c.flagFilters = nil
	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}

	fromDate, err := normalizeDate(c.flagFrom)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ids, err := client.ListEnvelopes(ctx, fromDate, docusign.Filters(c.flagFilters))
	if err != nil {
		ui.Error(fmt.Sprintf("error listing envelopes: %v", err))
		return 1
	}

	if err := c.Output(base.Keys(ids)); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}

// normalizeDate parses a free-form date into the YYYY-MM-DD form the API
// expects. An empty value stays empty so the client default applies.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", fmt.Errorf("invalid -from date %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}

// filterFlag collects repeated -filter key=v1,v2 values.
type filterFlag map[string][]string

func (f *filterFlag) String() string {
	if f == nil || *f == nil {
		return ""
	}
	parts := make([]string, 0, len(*f))
	for k, v := range *f {
		parts = append(parts, k+"="+strings.Join(v, ","))
	}
	return strings.Join(parts, " ")
}

func (f *filterFlag) Set(s string) error {
	key, values, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("filter %q must be key=value", s)
	}
	if *f == nil {
		*f = make(filterFlag)
	}
	(*f)[key] = append((*f)[key], strings.Split(values, ",")...)
	return nil
}
