package users

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type GroupsCommand struct {
	*base.Command

	flagUser string
}

func (c *GroupsCommand) Synopsis() string {
	return "List the groups a user belongs to"
}

func (c *GroupsCommand) Help() string {
	return `Usage: docusign user-groups -config=config.hcl -user=id

  List the user's groups as group ID => group name.` + c.Flags().Help()
}

func (c *GroupsCommand) Flags() *base.FlagSet {
	f := c.FlagSet("user-groups")

	f.StringVar(
		&c.flagUser, "user", "", "(Required) User ID.",
	)

	return f
}

func (c *GroupsCommand) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagUser == "" {
		ui.Error("user flag is required")
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	groups, err := client.ListUserGroups(ctx, c.flagUser)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing user groups: %v", err))
		return 1
	}

	if err := c.Output(groups); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
