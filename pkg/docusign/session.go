package docusign

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"
)

const loginInformationPath = "login_information"

// Session is an authenticated binding to one account on its serving host.
// It is created by ResolveSession (or the legacy ResolveFirstAccount) and is
// read-only afterwards. A Session is not safe for concurrent use.
type Session struct {
	host      string
	accountID string
	auth      Authenticator
	transport Transport
}

// Host returns the base URL requests are sent to.
func (s *Session) Host() string {
	return s.host
}

// AccountID returns the account every scoped request is issued under.
func (s *Session) AccountID() string {
	return s.accountID
}

// loginAccount is one descriptor from the login_information response.
type loginAccount struct {
	AccountID string `mapstructure:"accountId"`
	BaseURL   string `mapstructure:"baseUrl"`
	Name      string `mapstructure:"name"`
}

// ResolveSession runs the two-phase login protocol.
//
// It asks discoveryHost for the caller's login accounts, picks the one whose
// id equals targetAccountID, rewrites the host to that account's serving host
// ("https://{host of baseUrl}/restapi/v2/") and calls login_information once
// more against the new host to confirm it is reachable. If the account is not
// listed the error wraps ErrAccountNotFound and no Session is returned.
func ResolveSession(
	ctx context.Context,
	dial Dialer,
	discoveryHost string,
	auth Authenticator,
	targetAccountID string,
	logger hclog.Logger,
) (*Session, error) {
	const op = "ResolveSession"

	if targetAccountID == "" {
		return nil, invalidArgument(op, "target account id is required")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("session")

	discovery, err := dial(discoveryHost)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for %s: %w", discoveryHost, err)
	}

	accounts, err := loginInformation(ctx, op, discovery, auth)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.AccountID != targetAccountID {
			continue
		}

		host, err := accountHost(op, account.BaseURL)
		if err != nil {
			return nil, err
		}

		resolved, err := dial(host)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport for %s: %w", host, err)
		}

		// Second call against the account's own host confirms access; its
		// body is not needed.
		headers, err := auth.Headers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to build authentication headers: %w", err)
		}
		if _, err := resolved.Do(ctx, http.MethodGet, "/"+loginInformationPath, nil, headers); err != nil {
			return nil, fmt.Errorf("failed to confirm login on %s: %w", host, err)
		}

		logger.Info("session resolved", "account_id", account.AccountID, "host", host)

		return &Session{
			host:      host,
			accountID: account.AccountID,
			auth:      auth,
			transport: resolved,
		}, nil
	}

	return nil, &Error{
		Op:  op,
		Err: ErrAccountNotFound,
		Msg: fmt.Sprintf("unable to access account %q", targetAccountID),
	}
}

// ResolveFirstAccount binds the first account listed by discoveryHost and
// keeps using discoveryHost for every request. There is no host rewrite and
// no confirmation call.
//
// Deprecated: the discovery host is not necessarily the host that serves the
// account. Use ResolveSession with an explicit account id.
func ResolveFirstAccount(
	ctx context.Context,
	dial Dialer,
	discoveryHost string,
	auth Authenticator,
	logger hclog.Logger,
) (*Session, error) {
	const op = "ResolveFirstAccount"

	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("session")

	t, err := dial(discoveryHost)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for %s: %w", discoveryHost, err)
	}

	accounts, err := loginInformation(ctx, op, t, auth)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, &Error{Op: op, Err: ErrAccountNotFound, Msg: "login information lists no accounts"}
	}

	logger.Warn("bound first listed account without host resolution",
		"account_id", accounts[0].AccountID, "host", discoveryHost)

	return &Session{
		host:      discoveryHost,
		accountID: accounts[0].AccountID,
		auth:      auth,
		transport: t,
	}, nil
}

// loginInformation fetches and decodes the unscoped account list.
func loginInformation(ctx context.Context, op string, t Transport, auth Authenticator) ([]loginAccount, error) {
	headers, err := auth.Headers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build authentication headers: %w", err)
	}

	body, err := t.Do(ctx, http.MethodGet, "/"+loginInformationPath, nil, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to get login information: %w", err)
	}

	obj, err := decodeObject(op, body)
	if err != nil {
		return nil, err
	}
	items, err := collection(op, obj, "loginAccounts")
	if err != nil {
		return nil, err
	}

	accounts := make([]loginAccount, 0, len(items))
	for _, item := range items {
		var account loginAccount
		if err := decodeItem(op, item, &account, "accountId"); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// accountHost derives the serving host from an account's baseUrl. Only the
// host name is kept; scheme, port and path are replaced.
func accountHost(op, baseURL string) (string, error) {
	if baseURL == "" {
		return "", malformed(op, "account descriptor has no baseUrl")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", malformed(op, "invalid baseUrl %q: %v", baseURL, err)
	}
	if u.Hostname() == "" {
		return "", malformed(op, "baseUrl %q has no host", baseURL)
	}
	return "https://" + u.Hostname() + "/restapi/v2/", nil
}
