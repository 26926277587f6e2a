package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaaSy-Solutions/statemock/pkg/mock"
	"github.com/SaaSy-Solutions/statemock/pkg/stateful"
)

func validEndpoint() *StatefulEndpoint {
	return &StatefulEndpoint{
		PathPattern: "/orders/**",
		Config: stateful.Config{
			ResourceType: "order",
			IDExtract:    &stateful.IDExtractor{Type: stateful.ExtractPathParam, Param: "id"},
			InitialState: "pending",
			StateResponses: map[string]*stateful.StateResponse{
				"pending": {StatusCode: 200, BodyTemplate: "{{state}}"},
				"paid":    {StatusCode: 200, BodyTemplate: "{{state}}"},
			},
			Transitions: []*stateful.TransitionTrigger{
				{Method: "POST", PathPattern: "/orders/*/pay", FromState: "pending", ToState: "paid"},
			},
		},
	}
}

func TestCollectionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := &Collection{Stateful: []*StatefulEndpoint{validEndpoint()}}
		assert.NoError(t, c.Validate())
	})

	t.Run("missing path pattern", func(t *testing.T) {
		se := validEndpoint()
		se.PathPattern = ""
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), "path_pattern")
	})

	t.Run("missing resource type", func(t *testing.T) {
		se := validEndpoint()
		se.ResourceType = ""
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), "resource_type")
	})

	t.Run("bad extractor", func(t *testing.T) {
		se := validEndpoint()
		se.IDExtract = &stateful.IDExtractor{Type: "bogus"}
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), "extractor")
	})

	t.Run("no state responses", func(t *testing.T) {
		se := validEndpoint()
		se.StateResponses = nil
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), "state response")
	})

	t.Run("reachable state without response", func(t *testing.T) {
		se := validEndpoint()
		se.Transitions = append(se.Transitions, &stateful.TransitionTrigger{
			Method: "POST", PathPattern: "/orders/*/ship", FromState: "paid", ToState: "shipped",
		})
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), `"shipped"`)
	})

	t.Run("incomplete transition", func(t *testing.T) {
		se := validEndpoint()
		se.Transitions[0].ToState = ""
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.ErrorContains(t, c.Validate(), "to_state")
	})

	t.Run("invalid mock", func(t *testing.T) {
		c := &Collection{Mocks: []*mock.Mock{{Name: "broken"}}}
		assert.ErrorContains(t, c.Validate(), "matcher")
	})

	t.Run("invalid mock in folder", func(t *testing.T) {
		c := &Collection{Folders: []*mock.Folder{{
			Name:  "f",
			Mocks: []*mock.Mock{{Name: "broken"}},
		}}}
		assert.ErrorContains(t, c.Validate(), "matcher")
	})
}

func TestCollectionWarnings(t *testing.T) {
	t.Run("clean config has none", func(t *testing.T) {
		c := &Collection{Stateful: []*StatefulEndpoint{validEndpoint()}}
		assert.Empty(t, c.Warnings())
	})

	t.Run("shadowed trigger", func(t *testing.T) {
		se := validEndpoint()
		se.Transitions = []*stateful.TransitionTrigger{
			{Method: "POST", PathPattern: "/orders/*/pay", FromState: "pending", ToState: "paid"},
			{Method: "POST", PathPattern: "/orders/*/pay", FromState: "pending", ToState: "paid", Condition: "$.x"},
		}
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		warnings := c.Warnings()
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Message, "shadowed")
	})

	t.Run("conditional earlier trigger does not shadow", func(t *testing.T) {
		se := validEndpoint()
		se.Transitions = []*stateful.TransitionTrigger{
			{Method: "POST", PathPattern: "/orders/*/pay", FromState: "pending", ToState: "paid", Condition: "$.x"},
			{Method: "POST", PathPattern: "/orders/*/pay", FromState: "pending", ToState: "paid"},
		}
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		assert.Empty(t, c.Warnings())
	})

	t.Run("unreachable from_state", func(t *testing.T) {
		se := validEndpoint()
		se.StateResponses["limbo"] = &stateful.StateResponse{StatusCode: 200}
		se.Transitions = append(se.Transitions, &stateful.TransitionTrigger{
			Method: "POST", PathPattern: "/orders/*/undo", FromState: "limbo", ToState: "pending",
		})
		c := &Collection{Stateful: []*StatefulEndpoint{se}}
		warnings := c.Warnings()
		require.NotEmpty(t, warnings)

		var sawUnreachableFrom, sawUnservedResponse bool
		for _, w := range warnings {
			if strings.Contains(w.Message, "not reachable from the initial state") {
				sawUnreachableFrom = true
			}
			if strings.Contains(w.Message, "never served") {
				sawUnservedResponse = true
			}
		}
		assert.True(t, sawUnreachableFrom)
		assert.True(t, sawUnservedResponse)
	})
}
