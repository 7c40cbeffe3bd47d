package server

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

type acceptType int

const (
	acceptJSON acceptType = iota
	acceptXML
	acceptText
	acceptNone
)

const contentTypeXML = "application/xml; charset=utf-8"

// writeEnvelope performs the single terminal write for a request. If the
// response is already committed (upstream timeout, dropped connection) it
// writes nothing and reports no error.
func writeEnvelope(ec echo.Context, env Envelope) error {
	if ec.Response().Committed {
		return nil
	}

	switch negotiate(ec) {
	case acceptJSON:
		if env.StatusCode() == http.StatusNoContent {
			return ec.NoContent(http.StatusNoContent)
		}
		return ec.JSON(env.StatusCode(), env.Payload())
	case acceptXML:
		body, err := encodeXML("response", env.Payload())
		if err != nil {
			// Degrade to a bare 500 rather than propagate.
			return ec.NoContent(http.StatusInternalServerError)
		}
		if env.StatusCode() == http.StatusNoContent {
			return ec.NoContent(http.StatusNoContent)
		}
		return ec.Blob(env.StatusCode(), contentTypeXML, body)
	case acceptText:
		if env.StatusCode() == http.StatusNoContent {
			return ec.NoContent(http.StatusNoContent)
		}
		return ec.String(env.StatusCode(), fmt.Sprintf("%v", env.Payload()))
	default:
		return ec.NoContent(http.StatusNotAcceptable)
	}
}

// negotiate picks the response representation. A .json/.xml path suffix
// forces the type; otherwise the Accept header decides in its declared order.
func negotiate(ec echo.Context) acceptType {
	path := ec.Request().URL.Path
	switch {
	case strings.HasSuffix(path, ".json"):
		return acceptJSON
	case strings.HasSuffix(path, ".xml"):
		return acceptXML
	}

	accept := ec.Request().Header.Get(echo.HeaderAccept)
	if accept == "" {
		return acceptJSON
	}

	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.IndexByte(mediaType, ';'); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		switch {
		case mediaType == "*/*", mediaType == "application/json", mediaType == "application/*",
			strings.HasSuffix(mediaType, "+json"):
			return acceptJSON
		case mediaType == "application/xml", mediaType == "text/xml",
			strings.HasSuffix(mediaType, "+xml"):
			return acceptXML
		case mediaType == "text/plain", mediaType == "text/*":
			return acceptText
		}
	}
	return acceptNone
}

// encodeXML serializes an arbitrary value through a generic object→XML
// conversion. Values are first normalized through JSON so that any
// serializable handler payload gets a deterministic, generic shape; a value
// JSON cannot represent is a structural failure.
func encodeXML(root string, v any) ([]byte, error) {
	normalized, err := normalizeForXML(v)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	if err := writeXMLValue(&b, root, normalized); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func normalizeForXML(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value not representable: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeXMLValue(b *strings.Builder, tag string, v any) error {
	tag = sanitizeXMLTag(tag)
	b.WriteString("<" + tag + ">")
	switch tv := v.(type) {
	case nil:
		// empty element
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := writeXMLValue(b, k, tv[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range tv {
			if err := writeXMLValue(b, "item", item); err != nil {
				return err
			}
		}
	default:
		if err := xml.EscapeText(b, fmt.Appendf(nil, "%v", tv)); err != nil {
			return err
		}
	}
	b.WriteString("</" + tag + ">")
	return nil
}

// sanitizeXMLTag makes an arbitrary map key usable as an element name.
func sanitizeXMLTag(tag string) string {
	var out strings.Builder
	for i, r := range tag {
		valid := r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9' && i > 0)
		if valid {
			out.WriteRune(r)
		} else {
			out.WriteByte('_')
		}
	}
	if out.Len() == 0 {
		return "item"
	}
	s := out.String()
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
