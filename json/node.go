package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/workflow"
)

// nodeDTO is the JSON representation of a Node with a type discriminator.
type nodeDTO struct {
	Type    string   `json:"type"`
	HTML    *string  `json:"html,omitempty"`
	Code    *string  `json:"code,omitempty"`
	Lang    *string  `json:"lang,omitempty"`
	Ordered *bool    `json:"ordered,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// MarshalNodes serializes rendered nodes for API clients.
func MarshalNodes(nodes []workflow.Node) ([]byte, error) {
	dtos := make([]nodeDTO, len(nodes))
	for i, n := range nodes {
		dto, err := marshalNode(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		dtos[i] = dto
	}
	return json.Marshal(dtos)
}

func marshalNode(n workflow.Node) (nodeDTO, error) {
	switch v := n.(type) {
	case workflow.Paragraph:
		return nodeDTO{Type: "paragraph", HTML: &v.HTML}, nil
	case workflow.Blockquote:
		return nodeDTO{Type: "blockquote", HTML: &v.HTML}, nil
	case workflow.CodeBlock:
		dto := nodeDTO{Type: "code", Code: &v.Code}
		if v.Lang != "" {
			dto.Lang = &v.Lang
		}
		return dto, nil
	case workflow.List:
		items := make([]string, len(v.Items))
		for i, it := range v.Items {
			items[i] = it.HTML
		}
		return nodeDTO{Type: "list", Ordered: &v.Ordered, Items: items}, nil
	default:
		return nodeDTO{}, fmt.Errorf("unknown node type: %T", n)
	}
}
