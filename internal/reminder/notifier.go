// Package reminder sends a daily digest of the reviews due today and overdue.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

// Notifier delivers a pending review digest.
type Notifier interface {
	Notify(ctx context.Context, userID string, digest calendar.PendingDigest) error
}

// Message formats the digest as plain text.
func Message(digest calendar.PendingDigest) string {
	if digest.Empty() {
		return fmt.Sprintf("Nenhuma revisão pendente em %s.", study.FormatDate(digest.AsOf))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Revisões para hoje (%s): %d", study.FormatDate(digest.AsOf), len(digest.DueToday))
	for _, e := range digest.DueToday {
		fmt.Fprintf(&sb, "\n- %s (%s)", e.Subject, e.Days)
	}
	if len(digest.Overdue) > 0 {
		fmt.Fprintf(&sb, "\nRevisões atrasadas: %d", len(digest.Overdue))
		for _, e := range digest.Overdue {
			fmt.Fprintf(&sb, "\n- %s %s (%s)", study.FormatDate(e.Date), e.Subject, e.Days)
		}
	}
	return sb.String()
}

// LogNotifier writes the digest to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, userID string, digest calendar.PendingDigest) error {
	n.logger.InfoContext(ctx, "pending reviews",
		slog.String("user_id", userID),
		slog.String("as_of", digest.AsOf.String()),
		slog.Int("due_today", len(digest.DueToday)),
		slog.Int("overdue", len(digest.Overdue)),
	)
	pending := make([]calendar.Event, 0, len(digest.DueToday)+len(digest.Overdue))
	pending = append(pending, digest.DueToday...)
	pending = append(pending, digest.Overdue...)
	for _, e := range pending {
		n.logger.DebugContext(ctx, "pending review",
			slog.String("user_id", userID),
			slog.String("study_id", e.StudyID),
			slog.String("subject", e.Subject),
			slog.String("date", e.Date.String()),
			slog.Int("days", e.Days.Days()),
		)
	}
	return nil
}

type webhookReview struct {
	Date    string `json:"date"`
	StudyID string `json:"study_id"`
	Subject string `json:"subject"`
	Days    int    `json:"days"`
}

type webhookPayload struct {
	UserID   string          `json:"user_id"`
	AsOf     string          `json:"as_of"`
	Text     string          `json:"text"`
	DueToday []webhookReview `json:"due_today"`
	Overdue  []webhookReview `json:"overdue"`
}

func toWebhookReviews(events []calendar.Event) []webhookReview {
	reviews := make([]webhookReview, 0, len(events))
	for _, e := range events {
		reviews = append(reviews, webhookReview{
			Date:    e.Date.String(),
			StudyID: e.StudyID,
			Subject: e.Subject,
			Days:    e.Days.Days(),
		})
	}
	return reviews
}

// WebhookNotifier posts non-empty digests as JSON to a URL.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, userID string, digest calendar.PendingDigest) error {
	if digest.Empty() {
		return nil
	}

	res, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{
			UserID:   userID,
			AsOf:     digest.AsOf.String(),
			Text:     Message(digest),
			DueToday: toWebhookReviews(digest.DueToday),
			Overdue:  toWebhookReviews(digest.Overdue),
		}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("status code: %d, body: %s", res.StatusCode(), res.String())
	}
	return nil
}
