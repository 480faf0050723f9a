package service

import (
	"context"
	"testing"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoutingKey(t *testing.T) {
	id := uuid.MustParse("7f3c2a10-5b7e-4c1a-9f00-0a1b2c3d4e5f")
	assert.Equal(t, "workspace.7f3c2a10-5b7e-4c1a-9f00-0a1b2c3d4e5f", RoutingKey(model.WorkspaceEvent{WorkspaceID: id}))
}

func TestNoopPublisher(t *testing.T) {
	var p EventPublisherInterface = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), model.WorkspaceEvent{}))
}
