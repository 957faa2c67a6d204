package folders

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type TemplatesCommand struct {
	*base.Command

	flagEnvelope string
	flagFolder   string
}

func (c *TemplatesCommand) Synopsis() string {
	return "List templates used by an envelope or stored in a folder"
}

func (c *TemplatesCommand) Help() string {
	return `Usage: docusign templates -config=config.hcl (-envelope=id | -folder=id)

  List templates as template ID => name, either those applied to an
  envelope or those stored in a template folder.` + c.Flags().Help()
}

func (c *TemplatesCommand) Flags() *base.FlagSet {
	f := c.FlagSet("templates")

	f.StringVar(
		&c.flagEnvelope, "envelope", "", "Envelope ID.",
	)
	f.StringVar(
		&c.flagFolder, "folder", "", "Template folder ID.",
	)

	return f
}

func (c *TemplatesCommand) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if (c.flagEnvelope == "") == (c.flagFolder == "") {
		ui.Error("exactly one of envelope or folder is required")
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	var templates map[string]string
	if c.flagEnvelope != "" {
		templates, err = client.ListTemplatesForEnvelope(ctx, c.flagEnvelope)
	} else {
		templates, err = client.ListTemplatesInFolder(ctx, c.flagFolder)
	}
	if err != nil {
		ui.Error(fmt.Sprintf("error listing templates: %v", err))
		return 1
	}

	if err := c.Output(templates); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
