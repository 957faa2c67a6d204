package consent

import (
	"context"
	"fmt"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

type Command struct {
	*base.Command

	// OpenURL opens the consent page. Defaults to browser.OpenURL.
	OpenURL func(url string) error

	flagNoBrowser bool
}

func (c *Command) Synopsis() string {
	return "Grant JWT impersonation consent in a browser"
}

func (c *Command) Help() string {
	return `Usage: docusign consent -config=config.hcl [-no-browser]

  Open the OAuth consent page for the configured jwt_auth integration key.
  The user named by user_id must grant consent once before JWT grant
  authentication succeeds. The consent URL is always printed.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.FlagSet("consent")

	f.BoolVar(
		&c.flagNoBrowser, "no-browser", false, "Only print the consent URL.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	if err := c.Parse(c.Flags(), args); err != nil {
		ui.Error(err.Error())
		return 1
	}

	src, err := c.JWTSource(context.Background())
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring jwt auth: %v", err))
		return 1
	}

	url := src.ConsentURL()
	ui.Output(url)
	if c.flagNoBrowser {
		return 0
	}

	open := c.OpenURL
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(url); err != nil {
		ui.Warn(fmt.Sprintf("Could not open browser: %v", err))
	}
	return 0
}
