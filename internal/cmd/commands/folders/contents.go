package folders

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type ContentsCommand struct {
	*base.Command

	flagFolder string
	flagStatus bool
}

func (c *ContentsCommand) Synopsis() string {
	return "List the envelopes in a folder"
}

func (c *ContentsCommand) Help() string {
	return `Usage: docusign folder-contents -config=config.hcl -folder=id [-status]

  List the envelopes in a folder as envelope ID => subject. With -status the
  envelope status is appended to each subject. Only the first page of
  results is read.` + c.Flags().Help()
}

func (c *ContentsCommand) Flags() *base.FlagSet {
	f := c.FlagSet("folder-contents")

	f.StringVar(
		&c.flagFolder, "folder", "", "(Required) Folder ID.",
	)
	f.BoolVar(
		&c.flagStatus, "status", false, "Append the envelope status to each subject.",
	)

	return f
}

func (c *ContentsCommand) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagFolder == "" {
		ui.Error("folder flag is required")
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	items, err := client.ListFolderContents(ctx, c.flagFolder, c.flagStatus)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing folder contents: %v", err))
		return 1
	}

	if err := c.Output(items); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
