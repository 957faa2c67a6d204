package envelopes

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
)

type TabsCommand struct {
	*base.Command

	flagEnvelope      string
	flagRecipient     string
	flagGrouped       bool
	flagAllRecipients bool
}

func (c *TabsCommand) Synopsis() string {
	return "Show a recipient's normalized tab values"
}

func (c *TabsCommand) Help() string {
	return `Usage: docusign tabs -config=config.hcl -envelope=id (-recipient=id | -all-recipients)

  Show the tab values of one recipient, or of every signer with
  -all-recipients. Values are flattened to label => value unless -grouped is
  set, in which case they are nested as type => tab ID => label => value.

  With -all-recipients the output is keyed by recipient ID. Recipients whose
  tabs cannot be read are reported and the command exits 1 after printing
  the rest.` + c.Flags().Help()
}

func (c *TabsCommand) Flags() *base.FlagSet {
	f := c.FlagSet("tabs")

	f.StringVar(
		&c.flagEnvelope, "envelope", "", "(Required) Envelope ID.",
	)
	f.StringVar(
		&c.flagRecipient, "recipient", "", "Recipient ID.",
	)
	f.BoolVar(
		&c.flagGrouped, "grouped", false,
		"Group values by tab type and tab ID instead of flattening by label.",
	)
	f.BoolVar(
		&c.flagAllRecipients, "all-recipients", false,
		"Show tabs for every signer of the envelope.",
	)

	return f
}

func (c *TabsCommand) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if c.flagEnvelope == "" {
		ui.Error("envelope flag is required")
		return 1
	}
	if (c.flagRecipient == "") == !c.flagAllRecipients {
		ui.Error("exactly one of recipient or all-recipients is required")
		return 1
	}

	ctx := context.Background()
	defer c.WriteMetrics()
	client, err := c.Client(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	if !c.flagAllRecipients {
		v, err := c.tabs(ctx, client, c.flagRecipient)
		if err != nil {
			ui.Error(fmt.Sprintf("error listing tabs: %v", err))
			return 1
		}
		if err := c.Output(v); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	recipients, err := client.ListRecipients(ctx, c.flagEnvelope)
	if err != nil {
		ui.Error(fmt.Sprintf("error listing recipients: %v", err))
		return 1
	}

	var result *multierror.Error
	out := make(map[string]any, len(recipients))
	for _, id := range base.Keys(recipients) {
		v, err := c.tabs(ctx, client, id)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("recipient %s: %w", id, err))
			continue
		}
		out[id] = v
	}

	if err := c.Output(out); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if err := result.ErrorOrNil(); err != nil {
		ui.Error(fmt.Sprintf("error listing tabs: %v", err))
		return 1
	}
	return 0
}

// tabs returns the selected projection of one recipient's tabs.
func (c *TabsCommand) tabs(ctx context.Context, client *docusign.Client, recipientID string) (any, error) {
	set, err := client.ListTabs(ctx, c.flagEnvelope, recipientID)
	if err != nil {
		return nil, err
	}
	if c.flagGrouped {
		return set.Grouped()
	}
	return set.Flat(), nil
}
