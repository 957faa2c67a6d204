package docusign

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_GetCombinedDocuments(t *testing.T) {
	ctx := context.Background()
	const path = "/accounts/acc-1/envelopes/e-1/documents/combined"
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj")

	t.Run("binary body comes from last response", func(t *testing.T) {
		tr := new(mockTransport)
		expectGet(tr, path, nil, string(pdf)).Once()
		tr.On("LastResponseBody").Return(pdf).Once()

		got, err := newTestClient(t, tr).GetCombinedDocuments(ctx, "e-1")
		require.NoError(t, err)
		assert.Equal(t, pdf, got)
		tr.AssertExpectations(t)
	})

	t.Run("json null falls back to last response", func(t *testing.T) {
		tr := new(mockTransport)
		expectGet(tr, path, nil, "null")
		tr.On("LastResponseBody").Return([]byte("null"))

		got, err := newTestClient(t, tr).GetCombinedDocuments(ctx, "e-1")
		require.NoError(t, err)
		assert.Equal(t, []byte("null"), got)
	})

	t.Run("json body yields nothing", func(t *testing.T) {
		tr := new(mockTransport)
		expectGet(tr, path, nil, `{"envelopeId": "e-1"}`)

		got, err := newTestClient(t, tr).GetCombinedDocuments(ctx, "e-1")
		require.NoError(t, err)
		assert.Nil(t, got)
		tr.AssertNotCalled(t, "LastResponseBody")
	})

	t.Run("empty body yields nothing", func(t *testing.T) {
		tr := new(mockTransport)
		expectGet(tr, path, nil, "")
		tr.On("LastResponseBody").Return([]byte{})

		got, err := newTestClient(t, tr).GetCombinedDocuments(ctx, "e-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("transport error propagates", func(t *testing.T) {
		tr := new(mockTransport)
		tr.On("Do", mock.Anything, http.MethodGet, path, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		got, err := newTestClient(t, tr).GetCombinedDocuments(ctx, "e-1")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), "connection reset")
		tr.AssertNotCalled(t, "LastResponseBody")
	})
}
