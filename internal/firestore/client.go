// Package firestore stores planner data in Cloud Firestore through its REST API.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/studyplanner/internal/config"
)

var errDocumentNotFound = errors.New("firestore: document not found")

// ResponseError is returned for a non-2xx response.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

type document struct {
	Name       string `json:"name,omitempty"`
	Fields     fields `json:"fields,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// id returns the last segment of the document name.
func (d document) id() string {
	return path.Base(d.Name)
}

type listDocumentsResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type precondition struct {
	Exists *bool `json:"exists,omitempty"`
}

type write struct {
	Update          *document     `json:"update,omitempty"`
	Delete          string        `json:"delete,omitempty"`
	CurrentDocument *precondition `json:"currentDocument,omitempty"`
}

type collectionSelector struct {
	CollectionID   string `json:"collectionId"`
	AllDescendants bool   `json:"allDescendants,omitempty"`
}

type fieldReference struct {
	FieldPath string `json:"fieldPath"`
}

type order struct {
	Field     fieldReference `json:"field"`
	Direction string         `json:"direction,omitempty"`
}

type structuredQuery struct {
	From    []collectionSelector `json:"from"`
	OrderBy []order              `json:"orderBy,omitempty"`
}

type runQueryResult struct {
	Document *document `json:"document,omitempty"`
	ReadTime string    `json:"readTime,omitempty"`
}

const pageSize = "300"

type Client struct {
	httpClient       *resty.Client
	databasePath     string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewClient(cfg config.FirestoreConfig) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Client{
		httpClient:       client,
		databasePath:     fmt.Sprintf("projects/%s/databases/%s", cfg.ProjectID, cfg.Database),
		maxRetryAttempts: cfg.RetryAttempts,
		retryDelay:       retry.DefaultDelay,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// userPath returns the name of the document holding the collections of a user.
func (client *Client) userPath(userID string) string {
	return client.databasePath + "/documents/users/" + url.PathEscape(userID)
}

// isRetryableError reports failures that may succeed on a later attempt:
// server errors, rate limiting and network errors.
func isRetryableError(err error) bool {
	var responseErr *ResponseError
	if errors.As(err, &responseErr) {
		return responseErr.StatusCode >= http.StatusInternalServerError ||
			responseErr.StatusCode == http.StatusTooManyRequests
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// isIdempotent reports whether sending the request again cannot apply it twice.
// Creates and commits are POSTs and go out once; runQuery is a POST that only reads.
func isIdempotent(method, endpoint string) bool {
	return method != http.MethodPost || strings.HasSuffix(endpoint, ":runQuery")
}

// do sends the request built by newRequest. Idempotent requests are retried on
// transient failures with exponential backoff. result receives the decoded body
// when it is not nil.
func (client *Client) do(ctx context.Context, method, endpoint string, newRequest func(*resty.Request) *resty.Request, result any) error {
	attempts := client.maxRetryAttempts + 1
	if !isIdempotent(method, endpoint) {
		attempts = 1
	}
	return retry.Do(
		func() error {
			request := client.httpClient.R().SetContext(ctx)
			if newRequest != nil {
				request = newRequest(request)
			}
			if result != nil {
				request = request.SetResult(result)
			}
			response, err := request.Execute(method, endpoint)
			if err != nil {
				err = fmt.Errorf("httpClient.%s(%s) > %w", method, endpoint, err)
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if response.IsError() {
				if response.StatusCode() == http.StatusNotFound {
					return retry.Unrecoverable(fmt.Errorf("%w: %s", errDocumentNotFound, endpoint))
				}
				err := &ResponseError{StatusCode: response.StatusCode(), Body: response.String()}
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Debug("retrying firestore request",
					"method", method,
					"endpoint", endpoint,
					"status", response.StatusCode())
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(client.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// createDocument creates a document with a client-chosen id.
func (client *Client) createDocument(ctx context.Context, parent, collectionID, documentID string, f fields) error {
	endpoint := "/" + parent + "/" + collectionID
	return client.do(ctx, http.MethodPost, endpoint, func(r *resty.Request) *resty.Request {
		return r.SetQueryParam("documentId", documentID).SetBody(document{Fields: f})
	}, nil)
}

func (client *Client) getDocument(ctx context.Context, name string) (document, error) {
	var doc document
	if err := client.do(ctx, http.MethodGet, "/"+name, nil, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

// listDocuments reads every page of a collection ordered by orderBy.
func (client *Client) listDocuments(ctx context.Context, parent, collectionID, orderBy string) ([]document, error) {
	endpoint := "/" + parent + "/" + collectionID
	var documents []document
	pageToken := ""
	for {
		var page listDocumentsResponse
		if err := client.do(ctx, http.MethodGet, endpoint, func(r *resty.Request) *resty.Request {
			r = r.SetQueryParam("pageSize", pageSize).SetQueryParam("orderBy", orderBy)
			if pageToken != "" {
				r = r.SetQueryParam("pageToken", pageToken)
			}
			return r
		}, &page); err != nil {
			if errors.Is(err, errDocumentNotFound) {
				return documents, nil
			}
			return nil, err
		}
		documents = append(documents, page.Documents...)
		if page.NextPageToken == "" {
			return documents, nil
		}
		pageToken = page.NextPageToken
	}
}

// runQuery runs a structured query under parent.
func (client *Client) runQuery(ctx context.Context, parent string, query structuredQuery) ([]document, error) {
	var results []runQueryResult
	if err := client.do(ctx, http.MethodPost, "/"+parent+":runQuery", func(r *resty.Request) *resty.Request {
		return r.SetBody(map[string]any{"structuredQuery": query})
	}, &results); err != nil {
		return nil, err
	}

	documents := make([]document, 0, len(results))
	for _, result := range results {
		if result.Document != nil {
			documents = append(documents, *result.Document)
		}
	}
	return documents, nil
}

// patchDocument updates the fields named by mask of an existing document.
func (client *Client) patchDocument(ctx context.Context, name string, f fields, mask []string) error {
	values := url.Values{}
	for _, fieldPath := range mask {
		values.Add("updateMask.fieldPaths", fieldPath)
	}
	values.Set("currentDocument.exists", "true")
	return client.do(ctx, http.MethodPatch, "/"+name, func(r *resty.Request) *resty.Request {
		return r.SetQueryParamsFromValues(values).SetBody(document{Fields: f})
	}, nil)
}

// deleteDocument deletes an existing document.
func (client *Client) deleteDocument(ctx context.Context, name string) error {
	return client.do(ctx, http.MethodDelete, "/"+name, func(r *resty.Request) *resty.Request {
		return r.SetQueryParam("currentDocument.exists", "true")
	}, nil)
}

// commit applies writes atomically.
func (client *Client) commit(ctx context.Context, writes []write) error {
	return client.do(ctx, http.MethodPost, "/"+client.databasePath+"/documents:commit", func(r *resty.Request) *resty.Request {
		return r.SetBody(map[string]any{"writes": writes})
	}, nil)
}

func exists(b bool) *precondition {
	return &precondition{Exists: &b}
}
