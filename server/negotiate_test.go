package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func successEnv() SuccessEnvelope {
	return SuccessEnvelope{
		Status: http.StatusOK,
		Data:   map[string]any{"name": "alice"},
		Meta:   map[string]any{"requestId": "r1"},
	}
}

func TestWriteEnvelopeJSON(t *testing.T) {
	t.Run("default_without_accept_header", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users", nil)
		require.NoError(t, writeEnvelope(ec, successEnv()))

		assert.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "alice", payload["data"].(map[string]any)["name"])
	})

	t.Run("wildcard_accept", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users", map[string]string{"Accept": "*/*"})
		require.NoError(t, writeEnvelope(ec, successEnv()))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no_content_has_empty_body", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodDelete, "/users/1", nil)
		env := SuccessEnvelope{Status: http.StatusNoContent}
		require.NoError(t, writeEnvelope(ec, env))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteEnvelopeXML(t *testing.T) {
	t.Run("accept_header", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users", map[string]string{"Accept": "application/xml"})
		require.NoError(t, writeEnvelope(ec, successEnv()))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contentTypeXML, rec.Header().Get(echo.HeaderContentType))
		body := rec.Body.String()
		assert.Contains(t, body, "<response>")
		assert.Contains(t, body, "<name>alice</name>")
	})

	t.Run("structural_failure_degrades_to_bare_500", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users", map[string]string{"Accept": "application/xml"})
		env := SuccessEnvelope{
			Status: http.StatusOK,
			Data:   map[string]any{"bad": func() {}}, // not serializable
		}
		require.NoError(t, writeEnvelope(ec, env))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteEnvelopeText(t *testing.T) {
	ec, rec := newTestContext(http.MethodGet, "/users", map[string]string{"Accept": "text/plain"})
	require.NoError(t, writeEnvelope(ec, successEnv()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestWriteEnvelopeNotAcceptable(t *testing.T) {
	ec, rec := newTestContext(http.MethodGet, "/users", map[string]string{"Accept": "image/png"})
	require.NoError(t, writeEnvelope(ec, successEnv()))

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestNegotiateSuffixOverride(t *testing.T) {
	t.Run("xml_suffix_beats_accept", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users.xml", map[string]string{"Accept": "application/json"})
		require.NoError(t, writeEnvelope(ec, successEnv()))
		assert.Equal(t, contentTypeXML, rec.Header().Get(echo.HeaderContentType))
	})

	t.Run("json_suffix_beats_accept", func(t *testing.T) {
		ec, rec := newTestContext(http.MethodGet, "/users.json", map[string]string{"Accept": "image/png"})
		require.NoError(t, writeEnvelope(ec, successEnv()))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON))
	})
}

func TestWriteEnvelopeCommittedResponse(t *testing.T) {
	ec, rec := newTestContext(http.MethodGet, "/users", nil)
	require.NoError(t, ec.NoContent(http.StatusGatewayTimeout))

	// Terminal stage must not write over an already-committed response.
	require.NoError(t, writeEnvelope(ec, successEnv()))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestEncodeXML(t *testing.T) {
	t.Run("maps_sorted_and_nested", func(t *testing.T) {
		out, err := encodeXML("response", map[string]any{
			"b": map[string]any{"inner": 1},
			"a": "text",
		})
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "<a>text</a>")
		assert.Contains(t, s, "<b><inner>1</inner></b>")
		assert.Less(t, strings.Index(s, "<a>"), strings.Index(s, "<b>"))
	})

	t.Run("slices_become_items", func(t *testing.T) {
		out, err := encodeXML("response", map[string]any{"list": []any{1, 2}})
		require.NoError(t, err)
		assert.Contains(t, string(out), "<list><item>1</item><item>2</item></list>")
	})

	t.Run("text_is_escaped", func(t *testing.T) {
		out, err := encodeXML("response", map[string]any{"v": "<&>"})
		require.NoError(t, err)
		assert.Contains(t, string(out), "<v>&lt;&amp;&gt;</v>")
	})

	t.Run("hostile_keys_sanitized", func(t *testing.T) {
		out, err := encodeXML("response", map[string]any{"1 bad key": true})
		require.NoError(t, err)
		assert.Contains(t, string(out), "<__bad_key>")
	})
}
