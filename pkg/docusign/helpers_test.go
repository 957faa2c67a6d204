package docusign

import (
	"context"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
)

// mockTransport mocks the Transport interface.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Do(ctx context.Context, method, path string, params, headers map[string]string) ([]byte, error) {
	args := m.Called(ctx, method, path, params, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockTransport) LastResponseBody() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

var testCredentials = Credentials{
	Username:      "user@example.com",
	Password:      "secret",
	IntegratorKey: "key-1",
}

const testAccountID = "acc-1"

// newTestClient returns a client already bound to testAccountID on tr.
func newTestClient(t *testing.T, tr Transport) *Client {
	t.Helper()
	return NewFromSession(&Session{
		host:      "https://na3.docusign.net/restapi/v2/",
		accountID: testAccountID,
		auth:      testCredentials,
		transport: tr,
	}, hclog.NewNullLogger())
}

// expectGet registers a GET on path with exactly params, answering body.
func expectGet(m *mockTransport, path string, params map[string]string, body string) *mock.Call {
	return m.On("Do", mock.Anything, http.MethodGet, path, params, mock.Anything).
		Return([]byte(body), nil)
}
