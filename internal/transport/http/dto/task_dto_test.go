package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/domain"
)

func TestUpdateRequestAssigneeForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *domain.Assignee
	}{
		{"absent", `{"title":"x"}`, nil},
		{"null clears", `{"assignee":null}`, ptr(domain.AssigneeNone)},
		{"value", `{"assignee":"rufus"}`, ptr(domain.AssigneeRufus)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.ToPatch().Assignee)
		})
	}
}

func TestUpdateRequestRejectsNonStringAssignee(t *testing.T) {
	var req UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assignee":42}`), &req))
}

func TestUpdateRequestTagsNullIsUntouched(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":null}`), &req))
	assert.Nil(t, req.ToPatch().Tags)

	require.NoError(t, json.Unmarshal([]byte(`{"tags":[]}`), &req))
	require.NotNil(t, req.ToPatch().Tags)
	assert.Empty(t, *req.ToPatch().Tags)
}

func TestCreateRequestToInput(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","assignee":"james","tags":["a"]}`), &req))

	input := req.ToInput()
	assert.Equal(t, "T", input.Title)
	require.NotNil(t, input.Assignee)
	assert.Equal(t, domain.AssigneeJames, *input.Assignee)
	assert.Nil(t, input.EstimatedTokenCost)
	assert.Equal(t, []string{"a"}, input.Tags)
}

func TestEnvelopeOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(Fail("not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, string(raw))

	raw, err = json.Marshal(OK([]string{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[]}`, string(raw))
}

func ptr[T any](v T) *T { return &v }
