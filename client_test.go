package gptifier_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/rs/zerolog"
	"github.com/shoenig/test/must"
	"github.com/tidwall/gjson"
)

// testServer serves a fixed status and body and records the last request.
type testServer struct {
	*httptest.Server

	status int
	body   string

	lastRequest *http.Request
	lastBody    []byte
}

func newTestServer(t *testing.T, status int, body string) *testServer {
	t.Helper()

	ts := &testServer{status: status, body: body}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ts.lastRequest = r
		ts.lastBody = b

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(ts.status)
		_, _ = io.WriteString(w, ts.body)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func testClient(t *testing.T, ts *testServer, opts ...gptifier.ClientOption) *gptifier.Client {
	t.Helper()

	opts = append([]gptifier.ClientOption{
		gptifier.WithBaseURL(ts.URL),
		gptifier.WithHTTPClient(ts.Client()),
	}, opts...)

	return gptifier.NewClient("sk-test", opts...)
}

func TestNewClient_defaults(t *testing.T) {
	c := gptifier.NewClient("sk-test")
	must.Eq(t, gptifier.DefaultBaseURL, c.BaseURL)
	must.Eq(t, http.DefaultClient, c.HTTPClient)

	c = gptifier.NewClient("sk-test", gptifier.WithHTTPClient(nil), gptifier.WithBaseURL(""))
	must.Eq(t, http.DefaultClient, c.HTTPClient)
	must.Eq(t, gptifier.DefaultBaseURL, c.BaseURL)

	c = gptifier.NewClient("sk-test", gptifier.WithBaseURL("http://proxy.internal/v1/"))
	must.Eq(t, "http://proxy.internal/v1", c.BaseURL)
}

func TestClient_headers(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": []}`)
	c := testClient(t, ts, gptifier.WithOrganization("org-123"))

	_, err := c.ListModels(t.Context())
	must.NoError(t, err)
	must.Eq(t, "Bearer sk-test", ts.lastRequest.Header.Get("Authorization"))
	must.Eq(t, "org-123", ts.lastRequest.Header.Get("OpenAI-Organization"))
	must.Eq(t, "/models", ts.lastRequest.URL.Path)
}

func TestClient_logsRequests(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": []}`)

	var buf bytes.Buffer
	c := testClient(t, ts, gptifier.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	_, err := c.ListFiles(t.Context())
	must.NoError(t, err)
	must.StrContains(t, buf.String(), `"path":"/files"`)
	must.StrContains(t, buf.String(), `"status":200`)
	must.StrNotContains(t, buf.String(), "sk-test")
}

func TestClient_errorEnvelope(t *testing.T) {
	msg := "Incorrect API key provided: sk-test. You can find your API key at https://platform.openai.com/account/api-keys."
	ts := newTestServer(t, http.StatusUnauthorized, `{"error": {"message": "`+msg+`", "type": "invalid_request_error", "param": null, "code": "invalid_api_key"}}`)
	c := testClient(t, ts)

	_, err := c.ListModels(t.Context())
	must.ErrorIs(t, err, serialization.ErrRemoteError)
	must.EqError(t, err, msg)
}

func TestClient_statusWithoutEnvelope(t *testing.T) {
	ts := newTestServer(t, http.StatusBadGateway, "<html><body>502 Bad Gateway</body></html>")
	c := testClient(t, ts)

	_, err := c.ListModels(t.Context())

	var serr *gptifier.StatusError
	must.True(t, errors.As(err, &serr))
	must.Eq(t, http.StatusBadGateway, serr.Code)
	must.StrContains(t, serr.Body, "Bad Gateway")
	must.EqError(t, err, "unexpected status code: 502: Bad Gateway")
}

func TestClient_envelopeOnSuccessStatus(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"error": {"message": "The server had an error while processing your request."}}`)
	c := testClient(t, ts, gptifier.WithAdminKey("sk-admin"))

	_, err := c.GetCosts(t.Context(), time.Unix(0, 0), 1)
	must.ErrorIs(t, err, serialization.ErrRemoteError)
	must.EqError(t, err, "The server had an error while processing your request.")
}

func TestGetCosts_statusWithoutEnvelope(t *testing.T) {
	ts := newTestServer(t, http.StatusServiceUnavailable, "upstream unavailable")
	c := testClient(t, ts, gptifier.WithAdminKey("sk-admin"))

	_, err := c.GetCosts(t.Context(), time.Unix(0, 0), 1)

	var serr *gptifier.StatusError
	must.True(t, errors.As(err, &serr))
	must.Eq(t, http.StatusServiceUnavailable, serr.Code)
}

func TestClient_malformedSuccess(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": [`)
	c := testClient(t, ts)

	_, err := c.ListModels(t.Context())
	must.ErrorIs(t, err, serialization.ErrMalformedResponse)
}

func TestListModels(t *testing.T) {
	body := `{"object": "list", "data": [
	  {"id": "gpt-4o", "object": "model", "created": 1715367049, "owned_by": "system"},
	  {"id": "ft:gpt-4o-mini:acme::abc", "object": "model", "created": 1720000000, "owned_by": "user-abc"}
	]}`
	ts := newTestServer(t, http.StatusOK, body)
	c := testClient(t, ts)

	models, err := c.ListModels(t.Context())
	must.NoError(t, err)
	must.Eq(t, body, models.Raw)
	must.SliceLen(t, 2, models.Items)
	must.True(t, models.Items[0].OwnedByPlatform)
	must.False(t, models.Items[1].OwnedByPlatform)
}

func TestDeleteModel(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": "ft:gpt-4o-mini:acme:suffix:abc123", "object": "model", "deleted": true}`)
	c := testClient(t, ts)

	d, err := c.DeleteModel(t.Context(), "ft:gpt-4o-mini:acme:suffix:abc123")
	must.NoError(t, err)
	must.True(t, d.Deleted)
	must.Eq(t, http.MethodDelete, ts.lastRequest.Method)
	must.Eq(t, "/models/ft:gpt-4o-mini:acme:suffix:abc123", ts.lastRequest.URL.Path)
}

func TestUploadFile(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": "file-abc123", "object": "file", "bytes": 11, "created_at": 1677610602, "filename": "train.jsonl", "purpose": "fine-tune"}`)
	c := testClient(t, ts)

	f, err := c.UploadFile(t.Context(), "train.jsonl", gptifier.FilePurposeFineTune, strings.NewReader(`{"a": "b"}` + "\n"))
	must.NoError(t, err)
	must.Eq(t, "file-abc123", f.ID)
	must.Eq(t, int64(11), f.Bytes)

	must.StrHasPrefix(t, "multipart/form-data", ts.lastRequest.Header.Get("Content-Type"))
	must.StrContains(t, string(ts.lastBody), `name="purpose"`)
	must.StrContains(t, string(ts.lastBody), `filename="train.jsonl"`)
}

func TestDeleteFile_wrongObject(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": "file-abc123", "object": "model", "deleted": true}`)
	c := testClient(t, ts)

	_, err := c.DeleteFile(t.Context(), "file-abc123")
	must.ErrorIs(t, err, serialization.ErrSchemaMismatch)
}

func TestCreateChatCompletion(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{
	  "id": "chatcmpl-123",
	  "object": "chat.completion",
	  "created": 1677652288,
	  "model": "gpt-4o-mini",
	  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there."}, "finish_reason": "stop"}],
	  "usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
	}`)
	c := testClient(t, ts)

	completion, err := c.CreateChatCompletion(t.Context(), gptifier.ChatRequest{
		Prompt:      "Hello!",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		Store:       true,
	})
	must.NoError(t, err)
	must.Eq(t, "Hello!", completion.Input)
	must.Eq(t, "Hello there.", completion.Output)
	must.Eq(t, int64(9), completion.InputTokens)
	must.Eq(t, int64(12), completion.OutputTokens)
	must.True(t, completion.RTT > 0)

	var sent struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Store       bool    `json:"store"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	must.NoError(t, json.Unmarshal(ts.lastBody, &sent))
	must.Eq(t, "gpt-4o-mini", sent.Model)
	must.Eq(t, 0.7, sent.Temperature)
	must.True(t, sent.Store)
	must.SliceLen(t, 1, sent.Messages)
	must.Eq(t, "user", sent.Messages[0].Role)
	must.Eq(t, "Hello!", sent.Messages[0].Content)
}

func TestCreateResponse(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{
	  "id": "resp_1",
	  "object": "response",
	  "created_at": 1741476542,
	  "model": "gpt-4o-2024-08-06",
	  "error": null,
	  "output": [{"type": "message", "role": "assistant", "content": [{"type": "output_text", "text": "Hi!"}]}],
	  "usage": {"input_tokens": 3, "output_tokens": 2, "total_tokens": 5}
	}`)
	c := testClient(t, ts)

	completion, err := c.CreateResponse(t.Context(), gptifier.ResponseRequest{Prompt: "Hey", Model: "gpt-4o", Temperature: 1})
	must.NoError(t, err)
	must.Eq(t, "Hi!", completion.Output)
	must.Eq(t, "/responses", ts.lastRequest.URL.Path)
	must.Eq(t, "Hey", gjson.GetBytes(ts.lastBody, "input").Str)
}

func TestCreateEmbedding(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{
	  "object": "list",
	  "data": [{"object": "embedding", "index": 0, "embedding": [0.25, -0.5]}],
	  "model": "text-embedding-3-small",
	  "usage": {"prompt_tokens": 2, "total_tokens": 2}
	}`)
	c := testClient(t, ts)

	e, err := c.CreateEmbedding(t.Context(), "a cat", "text-embedding-3-small")
	must.NoError(t, err)
	must.Eq(t, "a cat", e.Input)
	must.Eq(t, []float64{0.25, -0.5}, e.Vector)
	must.Eq(t, "a cat", gjson.GetBytes(ts.lastBody, "input").Str)
}

func TestCreateImage(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"created": 1713833628, "data": [{"b64_json": "aGVsbG8="}]}`)
	c := testClient(t, ts)

	img, err := c.CreateImage(t.Context(), gptifier.ImageRequest{Prompt: "a gopher", Model: "dall-e-3", Size: "1024x1024"})
	must.NoError(t, err)
	must.Eq(t, []byte("hello"), img.Data)
	must.Eq(t, "b64_json", gjson.GetBytes(ts.lastBody, "response_format").Str)
	must.Eq(t, int64(1), gjson.GetBytes(ts.lastBody, "n").Int())
}

func TestGetCosts(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "page", "data": [{"object": "bucket", "start_time": 1, "end_time": 2, "results": [{"object": "organization.costs.result", "amount": {"value": 1.25, "currency": "usd"}, "organization_id": "org1"}]}]}`)

	t.Run("admin key", func(t *testing.T) {
		c := testClient(t, ts, gptifier.WithAdminKey("sk-admin"))

		costs, err := c.GetCosts(t.Context(), time.Unix(1, 0), 30)
		must.NoError(t, err)
		must.Eq(t, 1.25, costs.Total)
		must.Eq(t, "Bearer sk-admin", ts.lastRequest.Header.Get("Authorization"))
		must.Eq(t, "1", ts.lastRequest.URL.Query().Get("start_time"))
		must.Eq(t, "30", ts.lastRequest.URL.Query().Get("limit"))
	})

	t.Run("missing admin key", func(t *testing.T) {
		c := testClient(t, ts)

		_, err := c.GetCosts(t.Context(), time.Unix(1, 0), 30)
		must.ErrorIs(t, err, gptifier.ErrMissingAdminKey)
	})
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": [{"object": "organization.user", "id": "user_abc", "name": "First Last", "email": "user@example.com", "role": "owner", "added_at": 1711471533}], "first_id": "user_abc", "has_more": false}`)
	c := testClient(t, ts, gptifier.WithAdminKey("sk-admin"))

	users, err := c.ListUsers(t.Context(), 0)
	must.NoError(t, err)
	must.SliceLen(t, 1, users.Items)
	must.Eq(t, "owner", users.Items[0].Role)
	must.Eq(t, "", ts.lastRequest.URL.RawQuery)
}

func TestListFineTuningJobs(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": [{"object": "fine_tuning.job", "id": "ftjob-abc123", "model": "gpt-4o-mini-2024-07-18", "created_at": 1721764800, "finished_at": null, "status": "queued"}], "has_more": false}`)
	c := testClient(t, ts)

	jobs, err := c.ListFineTuningJobs(t.Context(), 5)
	must.NoError(t, err)
	must.SliceLen(t, 1, jobs.Items)
	must.Eq(t, serialization.Sentinel, jobs.Items[0].FinishedAt)
	must.Eq(t, "5", ts.lastRequest.URL.Query().Get("limit"))
}

func TestCreateFineTuningJob(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "fine_tuning.job", "id": "ftjob-abc123", "model": "gpt-4o-mini-2024-07-18", "created_at": 1721764800, "status": "queued"}`)
	c := testClient(t, ts)

	job, err := c.CreateFineTuningJob(t.Context(), "file-abc123", "gpt-4o-mini-2024-07-18")
	must.NoError(t, err)
	must.Eq(t, "queued", job.Status)
	must.Eq(t, "file-abc123", gjson.GetBytes(ts.lastBody, "training_file").Str)
}

func TestChatCompletions_listAndDelete(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"object": "list", "data": [], "has_more": false}`)
	c := testClient(t, ts)

	list, err := c.ListChatCompletions(t.Context(), 10)
	must.NoError(t, err)
	must.SliceEmpty(t, list.Items)

	ts.body = `{"object": "chat.completion.deleted", "id": "chatcmpl-1", "deleted": true}`
	d, err := c.DeleteChatCompletion(t.Context(), "chatcmpl-1")
	must.NoError(t, err)
	must.True(t, d.Deleted)
	must.Eq(t, "/chat/completions/chatcmpl-1", ts.lastRequest.URL.Path)
}
