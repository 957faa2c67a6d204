package version

import (
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
	"github.com/hashicorp-forge/docusign-adapter/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: docusign version

  Print the docusign CLI version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.String())
	return 0
}
