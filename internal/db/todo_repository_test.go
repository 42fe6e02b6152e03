package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoUpdateSetDocument(t *testing.T) {
	tests := []struct {
		name   string
		update TodoUpdate
		want   map[string]any
	}{
		{
			name:   "empty update",
			update: TodoUpdate{},
			want:   map[string]any{},
		},
		{
			name:   "title only",
			update: TodoUpdate{Title: strPtr("X")},
			want:   map[string]any{"title": "X"},
		},
		{
			name:   "explicit false is included",
			update: TodoUpdate{Completed: boolPtr(false)},
			want:   map[string]any{"completed": false},
		},
		{
			name: "all fields",
			update: TodoUpdate{
				Title:       strPtr("X"),
				Description: strPtr("Y"),
				Completed:   boolPtr(true),
			},
			want: map[string]any{"title": "X", "description": "Y", "completed": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := tt.update.setDocument()
			require.Len(t, set, len(tt.want))
			for k, v := range tt.want {
				assert.Equal(t, v, set[k], "field %s", k)
			}
		})
	}
}

func TestOwnedFilter(t *testing.T) {
	id := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	filter := ownedFilter(id, ownerID)

	// ownership lives inside the lookup predicate, never as a separate check
	assert.Equal(t, id, filter["_id"])
	assert.Equal(t, ownerID, filter["owner_id"])
}

func TestTodoJSONShape(t *testing.T) {
	todo := Todo{
		ID:          primitive.NewObjectID(),
		Title:       "Test",
		Description: "d",
		Completed:   false,
		OwnerID:     primitive.NewObjectID(),
	}

	data, err := json.Marshal(todo)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, todo.ID.Hex(), out["id"])
	assert.Equal(t, todo.OwnerID.Hex(), out["owner_id"])
	assert.Equal(t, "Test", out["title"])
	assert.Equal(t, "d", out["description"])
	assert.Equal(t, false, out["completed"])
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := User{
		ID:           primitive.NewObjectID(),
		Name:         "T",
		Email:        "t@example.com",
		PasswordHash: "$2a$12$secret",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, user.ID.Hex(), out["id"])
	assert.Equal(t, "T", out["name"])
	assert.Equal(t, "t@example.com", out["email"])
	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, string(data), "secret")
}
