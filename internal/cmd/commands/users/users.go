package users

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagActive bool
}

func (c *Command) Synopsis() string {
	return "List account users"
}

func (c *Command) Help() string {
	return `Usage: docusign users -config=config.hcl [-active]

  List the account's users as user ID => user name.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.FlagSet("users")

	f.BoolVar(
		&c.flagActive, "active", false, "Only list active users.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
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

	users, err := client.ListUsers(ctx, c.flagActive)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing users: %v", err))
		return 1
	}

	if err := c.Output(users); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
