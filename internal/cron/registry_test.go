package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedJob string

func (n namedJob) Name() string              { return string(n) }
func (n namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndSkipsNil(t *testing.T) {
	registry, err := NewRegistry(namedJob("inventory-expiry"), nil)
	require.NoError(t, err)
	require.NoError(t, registry.Register(namedJob("notification-cleanup")))
	require.NoError(t, registry.Register(nil))

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "inventory-expiry", jobs[0].Name())
	assert.Equal(t, "notification-cleanup", jobs[1].Name())

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0], "Jobs must return a copy")
}

func TestRegistryRejectsDuplicateAndUnnamedJobs(t *testing.T) {
	_, err := NewRegistry(namedJob("inventory-expiry"), namedJob("inventory-expiry"))
	assert.ErrorContains(t, err, "registered twice")

	_, err = NewRegistry(namedJob(""))
	assert.ErrorContains(t, err, "has no name")
}
