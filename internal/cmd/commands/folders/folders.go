package folders

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
)

type Command struct {
	*base.Command

	flagTemplate string
}

func (c *Command) Synopsis() string {
	return "List folders as a flat ID to name map"
}

func (c *Command) Help() string {
	return `Usage: docusign folders -config=config.hcl [-template=only|include]

  List every folder of the account, nested folders included, as folder ID
  => name. By default envelope folders are listed; -template=only lists
  template folders and -template=include lists both.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.FlagSet("folders")

	f.StringVar(
		&c.flagTemplate, "template", "",
		`Folder scope: "" for envelope folders, "only" or "include" for template folders.`,
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	scope := docusign.FolderScope(c.flagTemplate)
	if !scope.Valid() {
		ui.Error(fmt.Sprintf("invalid template scope %q, expected \"\", only or include", c.flagTemplate))
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	folders, err := client.ListFolders(ctx, scope)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing folders: %v", err))
		return 1
	}

	if err := c.Output(folders); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
