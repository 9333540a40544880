package supadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"videoId", "video_id"},
		{"video_id", "video_id"},
		{"countCharacters", "count_characters"},
		{"ogUrl", "og_url"},
		{"userID", "user_id"},
		{"ID", "id"},
		{"Title", "title"},
		{"HTTPResponseCode", "http_response_code"},
		{"getHTTPResponse", "get_http_response"},
		{"version2Name", "version2_name"},
		{"availableLangs", "available_langs"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.in))
		})
	}
}

func TestNormalizeKeys(t *testing.T) {
	t.Run("nested maps and slices", func(t *testing.T) {
		in := map[string]any{
			"videoTitle": "Foo",
			"items": []any{
				map[string]any{"viewCount": 5.0},
				"plainString",
				[]any{map[string]any{"deepKey": true}},
			},
			"channel": map[string]any{
				"channelId":       "abc",
				"subscriberCount": nil,
			},
		}

		want := map[string]any{
			"video_title": "Foo",
			"items": []any{
				map[string]any{"view_count": 5.0},
				"plainString",
				[]any{map[string]any{"deep_key": true}},
			},
			"channel": map[string]any{
				"channel_id":       "abc",
				"subscriber_count": nil,
			},
		}

		assert.Equal(t, want, NormalizeKeys(in))
	})

	t.Run("scalars pass through", func(t *testing.T) {
		assert.Equal(t, "camelCase", NormalizeKeys("camelCase"))
		assert.Equal(t, 1.5, NormalizeKeys(1.5))
		assert.Nil(t, NormalizeKeys(nil))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []any{
			map[string]any{"videoId": 1.0},
			map[string]any{"video_id": 1.0},
			map[string]any{"a": []any{map[string]any{"HTTPStatus": map[string]any{"innerKey": "x"}}}},
			[]any{map[string]any{"ogUrl": "u"}, 3.0},
		}

		for _, in := range inputs {
			once := NormalizeKeys(in)
			assert.Equal(t, once, NormalizeKeys(once))
		}

		assert.Equal(t, map[string]any{"video_id": 1.0}, NormalizeKeys(map[string]any{"videoId": 1.0}))
		assert.Equal(t, map[string]any{"video_id": 1.0}, NormalizeKeys(map[string]any{"video_id": 1.0}))
	})

	t.Run("collision prefers snake key", func(t *testing.T) {
		in := map[string]any{
			"videoId":  "camel",
			"video_id": "snake",
		}
		assert.Equal(t, map[string]any{"video_id": "snake"}, NormalizeKeys(in))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := map[string]any{"videoId": map[string]any{"innerKey": 1.0}}
		NormalizeKeys(in)
		assert.Equal(t, map[string]any{"videoId": map[string]any{"innerKey": 1.0}}, in)
	})
}
