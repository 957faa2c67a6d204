// Package docusign is a client for the DocuSign eSignature REST API (v2).
//
// # Overview
//
// The client logs in once, binds the account it was asked for on the host
// that serves it, and reshapes nested API responses into flat mappings:
// envelopes, recipients, form tabs, folders, users, groups and templates.
//
// # Login
//
// Login is a two-phase protocol. The discovery host (www.docusign.net or
// demo.docusign.net) lists the caller's accounts via login_information. The
// account with the requested id carries a baseUrl; its host name becomes the
// session host ("https://{host}/restapi/v2/") and login_information is called
// once more against it. Every later request is scoped under
// "accounts/{accountId}/" on that host.
//
//	client, err := docusign.New(ctx, docusign.Config{
//	  Host:      "https://demo.docusign.net/restapi/v2",
//	  AccountID: "1234567",
//	  Auth: docusign.Credentials{
//	    Username:      "user@example.com",
//	    Password:      os.Getenv("DOCUSIGN_PASSWORD"),
//	    IntegratorKey: "abcd-1234",
//	  },
//	})
//
// Leaving AccountID empty selects the first listed account and keeps using
// the discovery host. That mode is deprecated.
//
// # Tabs
//
// ListTabs normalizes the per-type tab lists of a recipient into one TabSet.
// Flat returns label to value; Grouped returns type to tab id to
// {label: value}. Boolean-like tabs use "1" and "0"; unsigned signature tabs
// use "0".
//
// # Limitations
//
//   - A session is never renewed. Create a new Client when it expires.
//   - Only the first page of folder contents is read.
//   - Requests are not retried or rate limited.
package docusign
