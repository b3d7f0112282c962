package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/workflow"
)

// itemsEnvelope is the v1 wire format for the workflow item list.
type itemsEnvelope struct {
	Version int       `json:"version"`
	Items   []itemDTO `json:"items"`
}

type itemDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImageGender *string `json:"image_gender,omitempty"`
	Bookmarked  bool    `json:"bookmarked,omitempty"`
}

// MarshalItems serializes items in v1 envelope format.
func MarshalItems(items []workflow.Item) ([]byte, error) {
	env := itemsEnvelope{Version: version, Items: make([]itemDTO, len(items))}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		dto := itemDTO{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Status:      string(it.Status),
			Bookmarked:  it.Bookmarked,
		}
		if it.ImageURL != "" {
			dto.ImageURL = &it.ImageURL
		}
		if it.ImageGender != "" {
			g := string(it.ImageGender)
			dto.ImageGender = &g
		}
		env.Items[i] = dto
	}
	return json.Marshal(env)
}

// UnmarshalItems deserializes items from v1 envelope format.
func UnmarshalItems(data []byte) ([]workflow.Item, error) {
	var env itemsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	items := make([]workflow.Item, len(env.Items))
	for i, dto := range env.Items {
		it := workflow.Item{
			ID:          dto.ID,
			Title:       dto.Title,
			Description: dto.Description,
			Status:      workflow.Status(dto.Status),
			Bookmarked:  dto.Bookmarked,
		}
		if dto.ImageURL != nil {
			it.ImageURL = *dto.ImageURL
		}
		if dto.ImageGender != nil {
			it.ImageGender = workflow.Gender(*dto.ImageGender)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = it
	}
	return items, nil
}
