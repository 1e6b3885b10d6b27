package ipc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openniri/openniri/internal/daemon"
)

func TestParseRequest_DecodesFields(t *testing.T) {
	req, err := ParseRequest([]byte(`{"cmd":"scroll","delta_px":50}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "scroll", req.Cmd)
	assert.Equal(t, 50, req.DeltaPx)
}

func TestParseRequest_RejectsMissingCmd(t *testing.T) {
	_, err := ParseRequest([]byte(`{"delta_px":50}`))
	assert.Error(t, err)
}

func TestParseRequest_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestResponse_MarshalOmitsUnsetFields(t *testing.T) {
	data, err := okResponse().Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestErrorResponse_CarriesMessage(t *testing.T) {
	resp := errorResponse(assertErr("boom"))
	data, err := resp.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom"}`, string(data))
}

func TestResponseFromResult_PicksSinglePayloadField(t *testing.T) {
	status := &daemon.WireStatus{MonitorCount: 1, WindowCount: 3}
	window := &daemon.WireWindowInfo{ID: 7, Title: "Notepad"}

	cases := []struct {
		name string
		in   daemon.Result
		want string
	}{
		{"err", daemon.Result{Err: assertErr("nope")}, `{"error":"nope"}`},
		{"focused_window", daemon.Result{FocusedWindow: window}, fmtMustJSON(map[string]interface{}{"focused_window": window})},
		{"windows", daemon.Result{Windows: []daemon.WireWindowInfo{*window}}, fmtMustJSON(map[string]interface{}{"windows": []daemon.WireWindowInfo{*window}})},
		{"status", daemon.Result{Status: status}, fmtMustJSON(map[string]interface{}{"status": status})},
		{"none", daemon.Result{}, `{"ok":true}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := responseFromResult(c.in).Marshal()
			require.NoError(t, err)
			assert.JSONEq(t, c.want, string(data))
		})
	}
}

func fmtMustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

type stringError string

func (e stringError) Error() string { return string(e) }

func assertErr(msg string) error { return stringError(msg) }
