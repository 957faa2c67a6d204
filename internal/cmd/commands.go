package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/commands/consent"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/commands/envelopes"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/commands/folders"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/commands/users"
	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := &base.Command{
		Log: log,
		UI:  ui,
	}

	Commands = map[string]cli.CommandFactory{
		"consent": func() (cli.Command, error) {
			return &consent.Command{Command: b}, nil
		},
		"documents": func() (cli.Command, error) {
			return &envelopes.DocumentsCommand{Command: b}, nil
		},
		"envelopes": func() (cli.Command, error) {
			return &envelopes.Command{Command: b}, nil
		},
		"folder-contents": func() (cli.Command, error) {
			return &folders.ContentsCommand{Command: b}, nil
		},
		"folders": func() (cli.Command, error) {
			return &folders.Command{Command: b}, nil
		},
		"recipients": func() (cli.Command, error) {
			return &envelopes.RecipientsCommand{Command: b}, nil
		},
		"tabs": func() (cli.Command, error) {
			return &envelopes.TabsCommand{Command: b}, nil
		},
		"templates": func() (cli.Command, error) {
			return &folders.TemplatesCommand{Command: b}, nil
		},
		"user-groups": func() (cli.Command, error) {
			return &users.GroupsCommand{Command: b}, nil
		},
		"users": func() (cli.Command, error) {
			return &users.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
