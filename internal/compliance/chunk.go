package compliance

import (
	"encoding/json"

	"github.com/csheth/tdamcheck/internal/highlight"
)

// Chunk is one section of the uploaded document paired with the service's
// commentary. Comment is untrusted HTML.
type Chunk struct {
	Text       string           `json:"text"`
	Comment    string           `json:"comment"`
	Highlights []highlight.Span `json:"highlights,omitempty"`
}

// UnmarshalJSON accepts the chunk text under "text" or under "chunk", which
// is the key the deployed service emits.
func (c *Chunk) UnmarshalJSON(data []byte) error {
	var wire struct {
		Text       *string          `json:"text"`
		Chunk      *string          `json:"chunk"`
		Comment    string           `json:"comment"`
		Highlights []highlight.Span `json:"highlights"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Text != nil:
		c.Text = *wire.Text
	case wire.Chunk != nil:
		c.Text = *wire.Chunk
	default:
		c.Text = ""
	}
	c.Comment = wire.Comment
	c.Highlights = wire.Highlights
	return nil
}

type uploadResponse struct {
	Chunks *[]Chunk `json:"chunks"`
	Error  string   `json:"error"`
}
