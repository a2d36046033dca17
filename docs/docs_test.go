package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Info     map[string]interface{}     `json:"info"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, "LAB Member Hub API", doc.Info["title"])
	assert.Contains(t, doc.Paths, "/members/register")
	assert.Contains(t, doc.Paths, "/admin/member-skills/{memberId}/{skillId}/approve")
}
