package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/studydeck/internal/core/ports/driven"
)

// LLMSource opens the LLM service for a profile name; empty selects the default.
// The caller closes the returned service.
type LLMSource func(name string) (driven.LLMService, error)

// replySchema is the JSON Schema of T, both as a document sent to the model
// and resolved for validating replies.
type replySchema struct {
	name     string
	document []byte
	resolved *jsonschema.Resolved
}

func schemaOf[T any](name string) (*replySchema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer %s schema: %w", name, err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve %s schema: %w", name, err)
	}
	doc, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}
	return &replySchema{name: name, document: doc, resolved: resolved}, nil
}

// askStructured sends a system and user prompt and decodes the reply into T
// after validating it against schema.
func askStructured[T any](
	ctx context.Context,
	llm driven.LLMService,
	schema *replySchema,
	system, user string,
) (T, error) {
	var out T

	reply, err := llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: user},
	}, driven.ChatOptions{
		Schema:     schema.document,
		SchemaName: schema.name,
	})
	if err != nil {
		return out, err
	}

	raw := extractJSON(reply)
	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return out, fmt.Errorf("%s reply is not JSON: %w", schema.name, err)
	}
	if err := schema.resolved.Validate(instance); err != nil {
		return out, fmt.Errorf("%s reply does not match schema: %w", schema.name, err)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode %s reply: %w", schema.name, err)
	}
	return out, nil
}

// extractJSON strips Markdown code fences and any prose around the outermost
// JSON object in reply.
func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
