package elasticsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResponse(t *testing.T) {
	body := `{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_id": "a1", "_score": 3.5, "_source": {"title": "خبر عاجل"}, "highlight": {"title": ["<em>خبر</em> عاجل"]}},
				{"_id": "a2", "_score": 1.0, "_source": {"title": "Second"}}
			]
		}
	}`

	resp, err := decodeSearchResponse(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "a1", resp.Hits[0].ID)
	assert.Equal(t, 3.5, resp.Hits[0].Score)
	assert.Equal(t, []string{"<em>خبر</em> عاجل"}, resp.Hits[0].Highlight["title"])
	assert.JSONEq(t, `{"title": "Second"}`, string(resp.Hits[1].Source))
}

func TestDecodeSearchResponse_Invalid(t *testing.T) {
	_, err := decodeSearchResponse(strings.NewReader("not json"))
	assert.Error(t, err)
}
