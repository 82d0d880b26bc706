package firestore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplanner/internal/config"
)

// fakeFirestore keeps documents in memory and serves the subset of the REST API
// the client uses.
type fakeFirestore struct {
	mu        sync.Mutex
	documents map[string]fields
}

func newFakeFirestore() *fakeFirestore {
	return &fakeFirestore{documents: map[string]fields{}}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.FirestoreConfig{
		ProjectID:     "planner",
		Database:      "(default)",
		BaseURL:       server.URL,
		Token:         "token",
		RetryAttempts: 2,
	})
	client.retryDelay = 0
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func isCollection(name string) bool {
	_, rest, ok := strings.Cut(name, "/documents/")
	return ok && len(strings.Split(rest, "/"))%2 == 1
}

func sortKey(v value) string {
	switch {
	case v.IntegerValue != nil:
		i, _ := strconv.Atoi(*v.IntegerValue)
		return fmt.Sprintf("%020d", i)
	case v.StringValue != nil:
		return *v.StringValue
	case v.TimestampValue != nil:
		return *v.TimestampValue
	}
	return ""
}

func (f *fakeFirestore) sorted(match func(name string) bool, orderBy string) []document {
	var documents []document
	for name, fs := range f.documents {
		if match(name) {
			documents = append(documents, document{Name: name, Fields: fs})
		}
	}
	sort.SliceStable(documents, func(i, j int) bool {
		ki, kj := sortKey(documents[i].Fields[orderBy]), sortKey(documents[j].Fields[orderBy])
		if ki != kj {
			return ki < kj
		}
		return documents[i].Name < documents[j].Name
	})
	return documents
}

func (f *fakeFirestore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(name, ":runQuery"):
		f.runQuery(w, r, strings.TrimSuffix(name, ":runQuery"))
	case r.Method == http.MethodPost && strings.HasSuffix(name, ":commit"):
		f.commit(w, r)
	case r.Method == http.MethodPost:
		var doc document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		docName := name + "/" + r.URL.Query().Get("documentId")
		if _, ok := f.documents[docName]; ok {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "ALREADY_EXISTS"})
			return
		}
		f.documents[docName] = doc.Fields
		writeJSON(w, http.StatusOK, document{Name: docName, Fields: doc.Fields})
	case r.Method == http.MethodGet && isCollection(name):
		documents := f.sorted(func(docName string) bool {
			return path.Dir(docName) == name
		}, r.URL.Query().Get("orderBy"))
		writeJSON(w, http.StatusOK, listDocumentsResponse{Documents: documents})
	case r.Method == http.MethodGet:
		fs, ok := f.documents[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
			return
		}
		writeJSON(w, http.StatusOK, document{Name: name, Fields: fs})
	case r.Method == http.MethodPatch:
		fs, ok := f.documents[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
			return
		}
		var doc document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		for _, fieldPath := range r.URL.Query()["updateMask.fieldPaths"] {
			fs[fieldPath] = doc.Fields[fieldPath]
		}
		writeJSON(w, http.StatusOK, document{Name: name, Fields: fs})
	case r.Method == http.MethodDelete:
		if _, ok := f.documents[name]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
			return
		}
		delete(f.documents, name)
		writeJSON(w, http.StatusOK, map[string]string{})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": r.Method})
	}
}

func (f *fakeFirestore) runQuery(w http.ResponseWriter, r *http.Request, parent string) {
	var body struct {
		StructuredQuery structuredQuery `json:"structuredQuery"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	collectionID := body.StructuredQuery.From[0].CollectionID
	orderBy := ""
	if len(body.StructuredQuery.OrderBy) > 0 {
		orderBy = body.StructuredQuery.OrderBy[0].Field.FieldPath
	}

	documents := f.sorted(func(name string) bool {
		return strings.HasPrefix(name, parent+"/") && path.Base(path.Dir(name)) == collectionID
	}, orderBy)
	results := make([]runQueryResult, 0, len(documents)+1)
	for i := range documents {
		results = append(results, runQueryResult{Document: &documents[i]})
	}
	results = append(results, runQueryResult{ReadTime: "2024-01-01T00:00:00Z"})
	writeJSON(w, http.StatusOK, results)
}

func (f *fakeFirestore) commit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Writes []write `json:"writes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	for _, wr := range body.Writes {
		name := wr.Delete
		if wr.Update != nil {
			name = wr.Update.Name
		}
		_, found := f.documents[name]
		if wr.CurrentDocument != nil && wr.CurrentDocument.Exists != nil && *wr.CurrentDocument.Exists != found {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "FAILED_PRECONDITION " + name})
			return
		}
	}
	for _, wr := range body.Writes {
		if wr.Update != nil {
			f.documents[wr.Update.Name] = wr.Update.Fields
			continue
		}
		delete(f.documents, wr.Delete)
	}
	writeJSON(w, http.StatusOK, map[string]any{"commitTime": "2024-01-01T00:00:00Z"})
}
