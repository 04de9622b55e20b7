package badges

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Kind names a gamification event the badge collaborator understands.
type Kind string

const (
	KindMeetingCompleted Kind = "meeting_completed"
	KindReviewReceived   Kind = "review_received"
	KindPostPublished    Kind = "post_published"
)

type Event struct {
	UserID     int64     `json:"userId"`
	Kind       Kind      `json:"kind"`
	SubjectID  int64     `json:"subjectId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier forwards gamification events to the external badge service.
// Badge awards are that service's concern; we only report what happened.
type Notifier struct {
	client  *http.Client
	baseURL string
	token   string
	log     *zap.Logger
	now     func() time.Time
}

func NewNotifier(client *http.Client, baseURL, token string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		client:  client,
		baseURL: baseURL,
		token:   token,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether a badge collaborator is configured at all.
func (n *Notifier) Enabled() bool {
	return n != nil && n.client != nil && n.baseURL != ""
}

// Notify delivers one event. Delivery failures are logged and swallowed:
// a down badge service must never fail the user's request.
func (n *Notifier) Notify(ctx context.Context, userID, subjectID int64, kind Kind) {
	if !n.Enabled() {
		return
	}
	event := Event{
		UserID:     userID,
		Kind:       kind,
		SubjectID:  subjectID,
		OccurredAt: n.now(),
	}
	if err := n.send(ctx, event); err != nil {
		n.log.Warn("badge event delivery failed",
			zap.String("kind", string(kind)),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (n *Notifier) send(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal badge event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/events", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build badge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post badge event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("badge service responded %d", resp.StatusCode)
	}
	return nil
}
