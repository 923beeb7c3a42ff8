package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorJSON(rec, er.New(er.InvalidPhone, "bad phone"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, ErrorBody{Kind: er.InvalidPhone, Message: "bad phone"}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	ErrorJSON(rec, er.Wrap(er.Unexpected, "failed to create order", errors.New("pq: connection refused")))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	require.Equal(t, er.Unexpected, body.Kind)
	require.NotContains(t, body.Message, "pq")

	rec = httptest.NewRecorder()
	ErrorJSON(rec, errors.New("raw"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, er.Unexpected, decodeError(t, rec).Kind)
}

func TestSuccessJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessJSON(rec, http.StatusCreated, map[string]bool{"success": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Name string }
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	require.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.True(t, er.IsKind(DecodeJSON(r, &dst), er.Validation))
}
