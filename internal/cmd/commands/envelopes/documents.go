package envelopes

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/archive"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type DocumentsCommand struct {
	*base.Command

	flagEnvelope string
	flagOut      string
}

func (c *DocumentsCommand) Synopsis() string {
	return "Download an envelope's combined documents"
}

func (c *DocumentsCommand) Help() string {
	return `Usage: docusign documents -config=config.hcl -envelope=id [-out=name]

  Download the envelope's documents combined into one PDF. The file is stored
  in the configured archive under -out (default "<envelope>.pdf") and its
  location printed. Without an archive block the bytes are written to
  standard output.` + c.Flags().Help()
}

func (c *DocumentsCommand) Flags() *base.FlagSet {
	f := c.FlagSet("documents")

	f.StringVar(
		&c.flagEnvelope, "envelope", "", "(Required) Envelope ID.",
	)
	f.StringVar(
		&c.flagOut, "out", "", "Name within the archive. Default: <envelope>.pdf",
	)

	return f
}

func (c *DocumentsCommand) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagEnvelope == "" {
		ui.Error("envelope flag is required")
		return 1
	}

	ctx := context.Background()
	sink, err := c.Sink(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring archive: %v", err))
		return 1
	}

	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	data, err := client.GetCombinedDocuments(ctx, c.flagEnvelope)
	if err != nil {
		ui.Error(fmt.Sprintf("error downloading documents: %v", err))
		return 1
	}
	if data == nil {
		ui.Error(fmt.Sprintf("envelope %s returned no document content", c.flagEnvelope))
		return 1
	}

	if sink == nil {
		if _, err := c.Stdout().Write(data); err != nil {
			ui.Error(fmt.Sprintf("error writing documents: %v", err))
			return 1
		}
		return 0
	}

	name := c.flagOut
	if name == "" {
		name = archive.DefaultName(c.flagEnvelope)
	}
	location, err := sink.Put(ctx, name, data)
	if err != nil {
		ui.Error(fmt.Sprintf("error archiving documents: %v", err))
		return 1
	}

	ui.Info(location)
	return 0
}
