package tasks

import (
	"encoding/json"
	"fmt"

	"hangout-api/core/constants"
	"hangout-api/core/logger"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TypeStalePrune      = "hangout:prune_stale"
	TypePush            = "notification:push"
	TypeConcludeOverdue = "hangout:conclude_overdue"
)

type PrunePayload struct {
	HangoutID string `json:"hangout_id"`
}

type PushPayload struct {
	HangoutID string          `json:"hangout_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func ParsePrunePayload(t *asynq.Task) (*PrunePayload, error) {
	var p PrunePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", TypeStalePrune, err)
	}
	return &p, nil
}

func ParsePushPayload(t *asynq.Task) (*PushPayload, error) {
	var p PushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", TypePush, err)
	}
	return &p, nil
}

// Client enqueues best-effort follow-up work. Enqueue failures are logged and
// swallowed: follow-ups only act on data that is already logically invalid or
// already committed, so losing one never violates an invariant.
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueStalePrune(hangoutID string) {
	payload, _ := json.Marshal(PrunePayload{HangoutID: hangoutID})
	task := asynq.NewTask(TypeStalePrune, payload)
	if _, err := c.client.Enqueue(task, asynq.Queue(constants.QueueDefault), asynq.MaxRetry(3)); err != nil {
		logger.Error("Tasks:EnqueueStalePrune", "hangout_id", hangoutID, "error", err)
	}
}

func (c *Client) EnqueuePush(hangoutID, kind string, payload json.RawMessage) {
	body, _ := json.Marshal(PushPayload{HangoutID: hangoutID, Kind: kind, Payload: payload})
	task := asynq.NewTask(TypePush, body)
	if _, err := c.client.Enqueue(task, asynq.Queue(constants.QueueLow), asynq.MaxRetry(5)); err != nil {
		logger.Error("Tasks:EnqueuePush", "hangout_id", hangoutID, "error", err)
	}
}
