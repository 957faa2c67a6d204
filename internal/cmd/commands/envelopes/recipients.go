package envelopes

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type RecipientsCommand struct {
	*base.Command

	flagEnvelope string
}

func (c *RecipientsCommand) Synopsis() string {
	return "List the signer recipient IDs of an envelope"
}

func (c *RecipientsCommand) Help() string {
	return `Usage: docusign recipients -config=config.hcl -envelope=id

  List the recipient IDs of the envelope's signers.` + c.Flags().Help()
}

func (c *RecipientsCommand) Flags() *base.FlagSet {
	f := c.FlagSet("recipients")

	f.StringVar(
		&c.flagEnvelope, "envelope", "", "(Required) Envelope ID.",
	)

	return f
}

func (c *RecipientsCommand) Run(args []string) int {
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
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ids, err := client.ListRecipients(ctx, c.flagEnvelope)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing recipients: %v", err))
		return 1
	}

	if err := c.Output(base.Keys(ids)); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
