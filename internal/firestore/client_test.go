package firestore

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantAttempts int32
		wantErr      bool
		wantNotFound bool
	}{
		{
			name:         "server error then success",
			statuses:     []int{http.StatusServiceUnavailable, http.StatusOK},
			wantAttempts: 2,
		},
		{
			name:         "rate limited until attempts run out",
			statuses:     []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
			wantAttempts: 3,
			wantErr:      true,
		},
		{
			name:         "bad request is not retried",
			statuses:     []int{http.StatusBadRequest, http.StatusOK},
			wantAttempts: 1,
			wantErr:      true,
		},
		{
			name:         "missing document is not retried",
			statuses:     []int{http.StatusNotFound, http.StatusOK},
			wantAttempts: 1,
			wantErr:      true,
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := attempts.Add(1)
				assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
				writeJSON(w, tt.statuses[n-1], document{Name: "projects/planner/databases/(default)/documents/users/u1/studies/s1"})
			}))

			doc, err := client.getDocument(context.Background(), client.userPath("u1")+"/studies/s1")
			assert.Equal(t, tt.wantAttempts, attempts.Load())
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantNotFound, errors.Is(err, errDocumentNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s1", doc.id())
		})
	}
}

func TestClient_RetriesOnlyIdempotentRequests(t *testing.T) {
	tests := []struct {
		name         string
		call         func(client *Client) error
		wantAttempts int32
		wantErr      bool
	}{
		{
			name: "create is sent once",
			call: func(client *Client) error {
				return client.createDocument(context.Background(), client.userPath("u1"), "studies", "s1", fields{})
			},
			wantAttempts: 1,
			wantErr:      true,
		},
		{
			name: "commit is sent once",
			call: func(client *Client) error {
				return client.commit(context.Background(), []write{{Delete: client.userPath("u1") + "/studies/s1"}})
			},
			wantAttempts: 1,
			wantErr:      true,
		},
		{
			name: "query is retried",
			call: func(client *Client) error {
				_, err := client.runQuery(context.Background(), client.userPath("u1"), structuredQuery{
					From: []collectionSelector{{CollectionID: "tasks", AllDescendants: true}},
				})
				return err
			},
			wantAttempts: 2,
		},
		{
			name: "delete is retried",
			call: func(client *Client) error {
				return client.deleteDocument(context.Background(), client.userPath("u1")+"/studies/s1")
			},
			wantAttempts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if attempts.Add(1) == 1 {
					writeJSON(w, http.StatusServiceUnavailable, map[string]any{})
					return
				}
				if strings.HasSuffix(r.URL.Path, ":runQuery") {
					writeJSON(w, http.StatusOK, []runQueryResult{})
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{})
			}))

			err := tt.call(client)
			assert.Equal(t, tt.wantAttempts, attempts.Load())
			if tt.wantErr {
				var responseErr *ResponseError
				require.ErrorAs(t, err, &responseErr)
				assert.Equal(t, http.StatusServiceUnavailable, responseErr.StatusCode)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_ListDocumentsFollowsPages(t *testing.T) {
	var pageTokens []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/planner/databases/(default)/documents/users/u1/disciplines", r.URL.Path)
		assert.Equal(t, "name", r.URL.Query().Get("orderBy"))
		assert.Equal(t, pageSize, r.URL.Query().Get("pageSize"))

		token := r.URL.Query().Get("pageToken")
		pageTokens = append(pageTokens, token)
		prefix := "projects/planner/databases/(default)/documents/users/u1/disciplines/"
		if token == "" {
			writeJSON(w, http.StatusOK, listDocumentsResponse{
				Documents:     []document{{Name: prefix + "d1", Fields: fields{"name": stringValue("Direito")}}},
				NextPageToken: "page-2",
			})
			return
		}
		writeJSON(w, http.StatusOK, listDocumentsResponse{
			Documents: []document{{Name: prefix + "d2", Fields: fields{"name": stringValue("Português")}}},
		})
	}))

	disciplines, err := NewDisciplineRepository(client).FindAll(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "page-2"}, pageTokens)
	require.Len(t, disciplines, 2)
	assert.Equal(t, "d1", disciplines[0].ID)
	assert.Equal(t, "Português", disciplines[1].Name)
}

func TestFields_Decoding(t *testing.T) {
	createdAt := time.Date(2024, time.January, 8, 13, 45, 10, 500, time.UTC)
	f := fields{
		"subject":   stringValue("Crase"),
		"days":      intValue(30),
		"completed": boolValue(true),
		"createdAt": timestampValue(createdAt),
		"studyDate": dateValue(civil.Date{Year: 2024, Month: time.February, Day: 29}),
		"updatedAt": nullValue(),
		"reviews":   arrayOf(mapOf(fields{"days": intValue(7)})),
	}

	assert.Equal(t, "Crase", f.str("subject"))
	assert.Equal(t, "", f.str("missing"))
	days, err := f.integer("days")
	require.NoError(t, err)
	assert.Equal(t, 30, days)
	assert.True(t, f.boolean("completed"))
	assert.False(t, f.boolean("missing"))

	gotCreatedAt, err := f.time("createdAt")
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotCreatedAt))

	studyDate, err := f.date("studyDate")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, studyDate)
	assert.Equal(t, "2024-02-29T00:00:00Z", *f["studyDate"].TimestampValue)

	updatedAt, err := f.timestamp("updatedAt")
	require.NoError(t, err)
	assert.Nil(t, updatedAt)

	require.Len(t, f.array("reviews"), 1)
	assert.Nil(t, f.array("subject"))

	bad := fields{"days": {IntegerValue: func() *string { s := "seven"; return &s }()}}
	_, err = bad.integer("days")
	assert.Error(t, err)
}
