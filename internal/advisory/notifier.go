package advisory

import (
	"context"
	"encoding/json"

	"github.com/krishichetan/krishichetan-backend/pkg/logger"
	"github.com/krishichetan/krishichetan-backend/pkg/pubsub"
)

// PubSubNotifier publishes advisory-issued events so downstream channels
// (SMS, app notifications) can fan out. Publish failures are logged and
// swallowed: notification delivery never blocks issuing an advisory.
type PubSubNotifier struct {
	client *pubsub.Client
	logg   *logger.Logger
}

func NewPubSubNotifier(client *pubsub.Client, logg *logger.Logger) *PubSubNotifier {
	return &PubSubNotifier{client: client, logg: logg}
}

func (n *PubSubNotifier) AdvisoryIssued(ctx context.Context, record Record) {
	if n == nil || n.client == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		if n.logg != nil {
			n.logg.Error(ctx, "encoding advisory event", err)
		}
		return
	}
	attrs := map[string]string{
		"event":   "advisory.issued",
		"subject": record.Subject,
		"kind":    string(record.Kind),
	}
	if err := n.client.Publish(ctx, data, attrs); err != nil {
		if n.logg != nil {
			ctx = n.logg.WithAdvisoryID(ctx, record.ID)
			n.logg.Error(ctx, "publishing advisory event", err)
		}
	}
}
