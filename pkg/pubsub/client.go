package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

const publishTimeout = 15 * time.Second

// Client publishes advisory lifecycle events to the configured topic.
type Client struct {
	client    *pubsub.Client
	projectID string
	topic     string
}

// NewClient creates a Pub/Sub v2 client bound to the advisory topic.
func NewClient(ctx context.Context, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("gcp project id is required")
	}
	if strings.TrimSpace(cfg.AdvisoryTopic) == "" {
		return nil, errors.New("advisory topic is required")
	}

	psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "pubsub client initialized")
	}

	return &Client{
		client:    psClient,
		projectID: cfg.ProjectID,
		topic:     cfg.AdvisoryTopic,
	}, nil
}

// Publish sends data with the given attributes to the advisory topic and
// waits for the server acknowledgment.
func (c *Client) Publish(ctx context.Context, data []byte, attrs map[string]string) error {
	if c == nil || c.client == nil {
		return errors.New("pubsub client not initialized")
	}

	publisher := c.client.Publisher(c.topicResourceName())
	if publisher == nil {
		return fmt.Errorf("no publisher for topic %s", c.topic)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := publisher.Publish(publishCtx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing to %s: %w", c.topic, err)
	}
	return nil
}

// Close releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) topicResourceName() string {
	if strings.HasPrefix(c.topic, "projects/") && strings.Contains(c.topic, "/topics/") {
		return c.topic
	}
	return fmt.Sprintf("projects/%s/topics/%s", c.projectID, c.topic)
}
