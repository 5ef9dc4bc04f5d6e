package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ocrlight/internal/apperr"
	"github.com/ironsheep/ocrlight/internal/clipboard"
	"github.com/ironsheep/ocrlight/internal/config"
	"github.com/ironsheep/ocrlight/internal/ocr"
	"github.com/ironsheep/ocrlight/internal/surface"
)

type harness struct {
	server *Server
	clip   *clipboard.Memory
	dir    string
}

func newHarness(t *testing.T, engine ocr.Engine) *harness {
	t.Helper()

	dir := t.TempDir()
	tessdata := filepath.Join(dir, "tessdata")
	require.NoError(t, os.MkdirAll(tessdata, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tessdata, "eng"+ocr.TrainedDataExt), nil, 0644))

	settings, err := config.Load(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	clip := &clipboard.Memory{}
	surf := surface.New(surface.Options{
		Settings:    settings,
		Clipboard:   clip,
		Runner:      ocr.NewRunner(engine, nil),
		TessdataDir: tessdata,
	})
	return &harness{server: New(surf, nil), clip: clip, dir: dir}
}

func (h *harness) samplePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(h.dir, "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// call invokes an action synchronously and returns the response.
func (h *harness) call(t *testing.T, name string, args interface{}) *MCPResponse {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(ToolCallParams{Name: name, Arguments: raw})
	require.NoError(t, err)
	return h.server.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
}

// resultJSON extracts and decodes the text content of a successful response.
func resultJSON(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), &out))
	return out
}

func echoEngine(text string) ocr.Engine {
	return ocr.EngineFunc(func(ocr.Request) (string, error) { return text, nil })
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", apperr.ErrInvalidArgument), codeInvalidParams},
		{apperr.ErrNotAnImage, codeNotAnImage},
		{fmt.Errorf("%w: no model", apperr.ErrEngineFailure), codeEngineFailure},
		{fmt.Errorf("%w: disk", apperr.ErrIO), codeIOFailure},
		{apperr.ErrBusy, codeBusy},
		{apperr.ErrReadOnly, codeBusy},
		{errors.New("other"), codeToolFailed},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, errorCode(tt.err), tt.err.Error())
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	resp := h.server.handleToolsCall(&MCPRequest{ID: 1, Params: json.RawMessage(`"nope"`)})
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	resp := h.call(t, "image_crop", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestHandleToolsCall_PanicIsReported(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	actions["test_panic"] = func(*Server, toolCall) (interface{}, error) { panic("kaboom") }
	t.Cleanup(func() { delete(actions, "test_panic") })

	resp := h.call(t, "test_panic", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeToolFailed, resp.Error.Code)
	require.Contains(t, resp.Error.Data, "kaboom")
}

func TestFromPicture(t *testing.T) {
	h := newHarness(t, echoEngine(""))

	state := resultJSON(t, h.call(t, "from_picture", map[string]string{"path": h.samplePNG(t)}))
	require.Equal(t, true, state["has_image"])
	img := state["image"].(map[string]interface{})
	require.Equal(t, float64(60), img["width"])
	require.Equal(t, float64(20), img["height"])

	resp := h.call(t, "from_picture", map[string]string{"path": filepath.Join(h.dir, "missing.png")})
	require.Equal(t, codeIOFailure, resp.Error.Code)

	resp = h.call(t, "from_picture", map[string]string{})
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestFromClipboard_NotImage(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	h.clip.SetText("just text")

	resp := h.call(t, "from_clipboard", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeNotAnImage, resp.Error.Code)
	require.Equal(t, "not image", resp.Error.Data)
}

func TestFromClipboard_Unavailable(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	h.clip.Err = fmt.Errorf("%w: clipboard unavailable", apperr.ErrIO)

	resp := h.call(t, "from_clipboard", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeIOFailure, resp.Error.Code)
}

func TestTextActions(t *testing.T) {
	h := newHarness(t, echoEngine(""))

	resultJSON(t, h.call(t, "set_text", map[string]string{"text": "edited"}))
	require.Equal(t, "edited", resultJSON(t, h.call(t, "get_text", nil))["text"])

	out := filepath.Join(h.dir, "out.txt")
	saved := resultJSON(t, h.call(t, "save_text_as", map[string]string{"path": out}))
	require.Equal(t, float64(len("edited")), saved["bytes"])

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "edited", string(data))
}

func TestSettingsActions(t *testing.T) {
	h := newHarness(t, echoEngine(""))

	state := resultJSON(t, h.call(t, "select_language", map[string]string{"language": "eng"}))
	require.Equal(t, "eng", state["language"])

	state = resultJSON(t, h.call(t, "resize_window", map[string]int{"width": 640, "height": 480}))
	require.Equal(t, map[string]interface{}{"width": float64(640), "height": float64(480)}, state["window_size"])

	state = resultJSON(t, h.call(t, "select_font", map[string]interface{}{"family": "Consolas", "size": 11, "color": "#00FF00"}))
	font := state["font"].(map[string]interface{})
	require.Equal(t, "Consolas", font["family"])
	require.Equal(t, "#00ff00", font["color"])

	resp := h.call(t, "select_font", map[string]interface{}{"family": "Consolas", "size": -1})
	require.Equal(t, codeInvalidParams, resp.Error.Code)

	langs := resultJSON(t, h.call(t, "list_languages", map[string]bool{"reload": true}))
	require.Equal(t, []interface{}{"eng"}, langs["languages"])
	require.Equal(t, "eng", langs["selected"])
}

func TestMoreTrainedData(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	var opened []string
	h.server.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}

	out := resultJSON(t, h.call(t, "more_trained_data", nil))
	require.Equal(t, ocr.MoreTrainedDataURL, out["url"])
	require.Empty(t, opened)

	resultJSON(t, h.call(t, "more_trained_data", map[string]bool{"open": true}))
	require.Equal(t, []string{ocr.MoreTrainedDataURL}, opened)

	h.server.openURL = func(string) error { return errors.New("no browser") }
	resp := h.call(t, "more_trained_data", map[string]bool{"open": true})
	require.Equal(t, codeToolFailed, resp.Error.Code)
}

// session runs Serve over pipes and lets the test exchange lines with it.
type session struct {
	in    *io.PipeWriter
	out   *bufio.Scanner
	errCh chan error
}

func startSession(t *testing.T, s *Server) *session {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	errCh := make(chan error, 1)
	go func() {
		err := s.Serve(inR, outW)
		outW.Close()
		errCh <- err
	}()
	t.Cleanup(func() { inW.Close() })

	return &session{in: inW, out: bufio.NewScanner(outR), errCh: errCh}
}

func (ss *session) send(t *testing.T, id int, name string, args interface{}) {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	line, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]interface{}{"name": name, "arguments": json.RawMessage(raw)},
	})
	require.NoError(t, err)
	_, err = ss.in.Write(append(line, '\n'))
	require.NoError(t, err)
}

// next reads one message from the server.
func (ss *session) next(t *testing.T) map[string]interface{} {
	t.Helper()
	require.True(t, ss.out.Scan(), "server closed output: %v", ss.out.Err())
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(ss.out.Bytes(), &msg))
	return msg
}

func stateOf(t *testing.T, msg map[string]interface{}) map[string]interface{} {
	t.Helper()
	if params, ok := msg["params"].(map[string]interface{}); ok {
		return params
	}
	content := msg["result"].(map[string]interface{})["content"].([]interface{})
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content[0].(map[string]interface{})["text"].(string)), &out))
	return out
}

func TestServe_RecognizeIsAsynchronous(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, ocr.EngineFunc(func(ocr.Request) (string, error) {
		<-release
		return "  Sample Text\n", nil
	}))
	ss := startSession(t, h.server)

	ss.send(t, 1, "from_picture", map[string]string{"path": h.samplePNG(t)})
	require.Equal(t, float64(1), ss.next(t)["id"])

	ss.send(t, 2, "recognize", nil)
	busy := ss.next(t)
	require.Equal(t, "notifications/state", busy["method"])
	require.Equal(t, true, stateOf(t, busy)["busy"])
	require.Equal(t, "wait", stateOf(t, busy)["cursor"])

	// The loop keeps answering while the engine is blocked
	ss.send(t, 3, "state", nil)
	st := ss.next(t)
	require.Equal(t, float64(3), st["id"])
	require.Equal(t, true, stateOf(t, st)["read_only"])

	ss.send(t, 4, "recognize", nil)
	rejected := ss.next(t)
	require.Equal(t, float64(4), rejected["id"])
	require.Equal(t, float64(codeBusy), rejected["error"].(map[string]interface{})["code"])

	close(release)
	done := ss.next(t)
	require.Equal(t, float64(2), done["id"])
	require.Equal(t, "Sample Text", stateOf(t, done)["text"])

	idle := ss.next(t)
	require.Equal(t, "notifications/state", idle["method"])
	require.Equal(t, false, stateOf(t, idle)["busy"])
	require.Equal(t, false, stateOf(t, idle)["read_only"])
	require.Equal(t, "default", stateOf(t, idle)["cursor"])

	ss.send(t, 5, "exit", nil)
	require.Equal(t, float64(5), ss.next(t)["id"])
	require.NoError(t, <-ss.errCh)
}

func TestServe_RecognizeFailureRestoresState(t *testing.T) {
	h := newHarness(t, ocr.NewTesseract(t.TempDir()))
	ss := startSession(t, h.server)

	ss.send(t, 1, "from_picture", map[string]string{"path": h.samplePNG(t)})
	ss.next(t)
	ss.send(t, 2, "set_text", map[string]string{"text": "before"})
	ss.next(t)
	ss.send(t, 3, "select_language", map[string]string{"language": "xyz"})
	ss.next(t)

	ss.send(t, 4, "recognize", nil)
	require.Equal(t, "notifications/state", ss.next(t)["method"])

	failed := ss.next(t)
	require.Equal(t, float64(4), failed["id"])
	errObj := failed["error"].(map[string]interface{})
	require.Equal(t, float64(codeEngineFailure), errObj["code"])
	require.True(t, strings.Contains(errObj["data"].(string), "xyz"))

	idle := stateOf(t, ss.next(t))
	require.Equal(t, "before", idle["text"])
	require.Equal(t, false, idle["busy"])
	require.Equal(t, false, idle["read_only"])

	ss.send(t, 5, "exit", nil)
	ss.next(t)
	require.NoError(t, <-ss.errCh)
}

func TestServe_EOFWaitsForPendingRecognition(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, ocr.EngineFunc(func(ocr.Request) (string, error) {
		<-release
		return "late", nil
	}))
	ss := startSession(t, h.server)

	ss.send(t, 1, "from_picture", map[string]string{"path": h.samplePNG(t)})
	ss.next(t)
	ss.send(t, 2, "recognize", nil)
	ss.next(t)
	require.NoError(t, ss.in.Close())

	close(release)
	done := ss.next(t)
	require.Equal(t, float64(2), done["id"])
	require.Equal(t, "late", stateOf(t, done)["text"])
	ss.next(t)
	require.NoError(t, <-ss.errCh)
}

func TestServe_ParseError(t *testing.T) {
	h := newHarness(t, echoEngine(""))
	var out bytes.Buffer
	err := h.server.Serve(strings.NewReader("{broken\n\n"+`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first MCPResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, codeParseError, first.Error.Code)
}
