// Package scoring is the client side of the scoring backend: it submits
// a completed listing record and turns the backend's reply into a
// validated score/explanation pair. The client trusts the backend's
// already-parsed fields, it never re-parses raw model text.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scoring")

// ErrTransport wraps network level failures, the request never reached
// the backend or the reply never made it back. Terminal, no retry.
var ErrTransport = errors.New("scoring request transport failure")

// ErrInvalidResponse covers replies whose shape is wrong: bad JSON,
// missing fields, or a score that is not an integer in [0,100].
var ErrInvalidResponse = errors.New("scoring backend returned an invalid response")

// BackendError is a non-2xx reply from the scoring backend.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("scoring backend returned status %d: %s", e.Status, e.Body)
}

// ScoreResult is only ever constructed from a successfully validated
// backend reply. Score is an integer in [0,100]; out-of-range replies
// are rejected, never clamped.
type ScoreResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

func NewScoreResult(score float64, explanation string) (ScoreResult, error) {
	if score != math.Trunc(score) {
		return ScoreResult{}, fmt.Errorf("%w: score %v is not an integer", ErrInvalidResponse, score)
	}
	if score < 0 || score > 100 {
		return ScoreResult{}, fmt.Errorf("%w: score %v is out of [0,100]", ErrInvalidResponse, score)
	}
	return ScoreResult{
		Score:       int(score),
		Explanation: explanation,
	}, nil
}

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scoring/http")

	return &Client{http: client}
}

// Score submits one record to the backend in a single POST. Every
// failure mode is terminal for the current request.
func (c *Client) Score(ctx context.Context, record listing.Record) (ScoreResult, error) {
	ctx, span := tracer.Start(ctx, "client:Score")
	defer span.End()
	span.SetAttributes(
		attribute.String("site", record.Site),
		attribute.String("title", record.Title),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(record).
		Post("/analyze")
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if !res.IsSuccess() {
		backendErr := &BackendError{
			Status: res.StatusCode(),
			Body:   string(res.Body()),
		}
		span.RecordError(backendErr)
		span.SetStatus(codes.Error, "backend rejected request")
		return ScoreResult{}, backendErr
	}

	var reply struct {
		Score       *float64 `json:"score"`
		Explanation *string  `json:"explanation"`
	}
	err = json.Unmarshal(res.Body(), &reply)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal reply")
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if reply.Score == nil || reply.Explanation == nil {
		span.SetStatus(codes.Error, "reply is missing fields")
		return ScoreResult{}, fmt.Errorf("%w: missing score or explanation", ErrInvalidResponse)
	}

	result, err := NewScoreResult(*reply.Score, *reply.Explanation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reply score failed validation")
		return ScoreResult{}, err
	}

	span.SetAttributes(attribute.Int("score", result.Score))
	return result, nil
}
