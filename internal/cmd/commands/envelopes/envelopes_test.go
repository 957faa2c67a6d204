package envelopes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base/basetest"
)

const envelopesBody = `{"envelopes": [{"envelopeId": "env-2"}, {"envelopeId": "env-1"}]}`

func TestEnvelopesCommand(t *testing.T) {
	srv := basetest.NewServer(t, map[string]basetest.Response{
		"/accounts/acc-1/envelopes?from_date=1970-01-01":                       {Body: envelopesBody},
		"/accounts/acc-1/envelopes?from_date=2024-03-01&status=sent,delivered": {Body: envelopesBody},
	})

	t.Run("defaults", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &Command{Command: h.Command}

		code := c.Run(basetest.Args())
		require.Equal(t, 0, code, h.UI.ErrorWriter.String())

		var got []string
		require.NoError(t, json.Unmarshal(h.UI.OutputWriter.Bytes(), &got))
		assert.Equal(t, []string{"env-1", "env-2"}, got)
	})

	t.Run("free-form date and repeated filters", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &Command{Command: h.Command}

		code := c.Run(basetest.Args(
			"-from", "March 1, 2024",
			"-filter", "status=sent",
			"-filter", "status=delivered",
		))
		require.Equal(t, 0, code, h.UI.ErrorWriter.String())
		assert.Contains(t, srv.Requests(), "/accounts/acc-1/envelopes?from_date=2024-03-01&status=sent,delivered")
	})

	t.Run("metrics file", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		h.Command.Registry = nil
		c := &Command{Command: h.Command}
		path := filepath.Join(t.TempDir(), "envelopes.prom")

		require.Equal(t, 0, c.Run(basetest.Args("-metrics-file", path)), h.UI.ErrorWriter.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `docusign_requests_total{code="200",method="GET"} 3`)
	})

	t.Run("bad date", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &Command{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-from", "not a date")))
		assert.Contains(t, h.UI.ErrorWriter.String(), "invalid -from date")
	})

	t.Run("bad filter", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &Command{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-filter", "status")))
		assert.Contains(t, h.UI.ErrorWriter.String(), "must be key=value")
	})
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "2024-03-01", want: "2024-03-01"},
		{in: "03/01/2024", want: "2024-03-01"},
		{in: "March 1, 2024", want: "2024-03-01"},
		{in: "2024-03-01T10:00:00Z", want: "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterFlag(t *testing.T) {
	var f filterFlag
	require.NoError(t, f.Set("status=sent,delivered"))
	require.NoError(t, f.Set("status=voided"))
	require.NoError(t, f.Set("custom_field=Region=EU"))

	assert.Equal(t, filterFlag{
		"status":       {"sent", "delivered", "voided"},
		"custom_field": {"Region=EU"},
	}, f)

	assert.Error(t, f.Set("=x"))
	assert.Error(t, f.Set("novalue"))
}

func TestRecipientsCommand(t *testing.T) {
	srv := basetest.NewServer(t, map[string]basetest.Response{
		"/accounts/acc-1/envelopes/env-1/recipients": {Body: `{"signers": [{"recipientId": "2"}, {"recipientId": "1"}], "carbonCopies": [{"recipientId": "9"}]}`},
	})

	t.Run("lists signers", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &RecipientsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1")), h.UI.ErrorWriter.String())

		var got []string
		require.NoError(t, json.Unmarshal(h.UI.OutputWriter.Bytes(), &got))
		assert.Equal(t, []string{"1", "2"}, got)
	})

	t.Run("envelope required", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &RecipientsCommand{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args()))
		assert.Contains(t, h.UI.ErrorWriter.String(), "envelope flag is required")
	})

	t.Run("api error", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &RecipientsCommand{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-envelope", "missing")))
		assert.Contains(t, h.UI.ErrorWriter.String(), "error listing recipients")
	})
}

const tabsBody = `{
  "textTabs": [{"tabId": "t1", "tabLabel": "Name", "value": "Ada"}],
  "checkboxTabs": [{"tabId": "c1", "tabLabel": "Agree", "selected": "true"}]
}`

func TestTabsCommand(t *testing.T) {
	srv := basetest.NewServer(t, map[string]basetest.Response{
		"/accounts/acc-1/envelopes/env-1/recipients":        {Body: `{"signers": [{"recipientId": "1"}, {"recipientId": "2"}]}`},
		"/accounts/acc-1/envelopes/env-1/recipients/1/tabs": {Body: tabsBody},
	})

	t.Run("flat", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &TabsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1", "-recipient", "1")), h.UI.ErrorWriter.String())

		var got map[string]string
		require.NoError(t, json.Unmarshal(h.UI.OutputWriter.Bytes(), &got))
		assert.Equal(t, map[string]string{"Name": "Ada", "Agree": "1"}, got)
	})

	t.Run("grouped", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &TabsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1", "-recipient", "1", "-grouped")), h.UI.ErrorWriter.String())

		var got map[string]map[string]map[string]string
		require.NoError(t, json.Unmarshal(h.UI.OutputWriter.Bytes(), &got))
		assert.Equal(t, map[string]map[string]map[string]string{
			"textTabs":     {"t1": {"Name": "Ada"}},
			"checkboxTabs": {"c1": {"Agree": "1"}},
		}, got)
	})

	t.Run("all recipients reports failures", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &TabsCommand{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-envelope", "env-1", "-all-recipients")))

		var got map[string]map[string]string
		require.NoError(t, json.Unmarshal(h.UI.OutputWriter.Bytes(), &got))
		assert.Equal(t, map[string]map[string]string{"1": {"Name": "Ada", "Agree": "1"}}, got)
		assert.Contains(t, h.UI.ErrorWriter.String(), "recipient 2")
	})

	t.Run("recipient selection", func(t *testing.T) {
		for name, args := range map[string][]string{
			"neither": basetest.Args("-envelope", "env-1"),
			"both":    basetest.Args("-envelope", "env-1", "-recipient", "1", "-all-recipients"),
		} {
			t.Run(name, func(t *testing.T) {
				h := basetest.NewCommand(t, srv, "")
				c := &TabsCommand{Command: h.Command}

				assert.Equal(t, 1, c.Run(args))
				assert.Contains(t, h.UI.ErrorWriter.String(), "exactly one of recipient or all-recipients")
			})
		}
	})
}

func TestDocumentsCommand(t *testing.T) {
	pdf := "%PDF-1.4\x00\x01binary"
	srv := basetest.NewServer(t, map[string]basetest.Response{
		"/accounts/acc-1/envelopes/env-1/documents/combined": {ContentType: "application/pdf", Body: pdf},
		"/accounts/acc-1/envelopes/env-2/documents/combined": {Body: `{"envelopeId": "env-2"}`},
	})

	t.Run("stdout without archive", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &DocumentsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1")), h.UI.ErrorWriter.String())
		assert.Equal(t, pdf, h.Out.String())
	})

	t.Run("archive directory", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, `
archive {
  directory = "documents"
}`)
		c := &DocumentsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1")), h.UI.ErrorWriter.String())
		assert.Equal(t, "/etc/docusign/documents/env-1.pdf\n", h.UI.OutputWriter.String())

		data, err := afero.ReadFile(h.Fs, "/etc/docusign/documents/env-1.pdf")
		require.NoError(t, err)
		assert.Equal(t, pdf, string(data))
		assert.Empty(t, h.Out.String())
	})

	t.Run("custom name", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, `
archive {
  directory = "/archive"
}`)
		c := &DocumentsCommand{Command: h.Command}

		require.Equal(t, 0, c.Run(basetest.Args("-envelope", "env-1", "-out", "2024/contract.pdf")), h.UI.ErrorWriter.String())

		exists, err := afero.Exists(h.Fs, "/archive/2024/contract.pdf")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("json response has no document", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, "")
		c := &DocumentsCommand{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-envelope", "env-2")))
		assert.Contains(t, h.UI.ErrorWriter.String(), "returned no document content")
	})

	t.Run("escaping name", func(t *testing.T) {
		h := basetest.NewCommand(t, srv, `
archive {
  directory = "/archive"
}`)
		c := &DocumentsCommand{Command: h.Command}

		assert.Equal(t, 1, c.Run(basetest.Args("-envelope", "env-1", "-out", "../escape.pdf")))
		assert.Contains(t, h.UI.ErrorWriter.String(), "error archiving documents")
	})
}
