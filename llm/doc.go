// Package llm provides a provider-neutral abstraction layer for Large Language Model (LLM) APIs.
//
// This package defines common types, interfaces, and utilities that allow the
// conversion service to talk to Gemini, Anthropic, OpenAI, or Ollama without
// being tightly coupled to any specific provider's SDK.
//
// # Core Concepts
//
//  1. Messages: The Message type represents a conversation message with a role
//     (user, assistant, system) and text content blocks.
//
//  2. Client Interface: The Client interface provides Synchronous() for single
//     request/response calls. Implementations handle provider-specific details.
//
//  3. Middleware: The Middleware interface allows adding cross-cutting concerns
//     such as logging without modifying provider implementations.
//
//  4. Errors: The Error type provides provider-neutral error handling. Providers
//     translate their failures into one of the ErrorType categories so callers
//     can tell a blocked prompt from a bad API key or a rate limit.
//
// Usage Example
//
//	client, _ := gemini.NewGeminiClient(apiKey, "", "gemini-2.0-flash")
//	client := llm.WrapWithMiddleware(client, llm.NewLoggingMiddleware(logger, "gemini"))
//
//	req := llm.NewTextRequest(systemPrompt, "integral of x squared")
//	req.Temperature = llm.Float(0.1)
//	resp, err := client.Synchronous(ctx, req)
//
// # Extension Points
//
// To add a new LLM provider:
//  1. Implement the Client interface
//  2. Translate between provider-specific types and llm package types
//  3. Handle provider-specific errors and translate to llm.Error types
package llm
