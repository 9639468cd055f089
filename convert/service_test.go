package convert

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/aschepis/backscratcher/editord/normalize"
	"github.com/rs/zerolog"
)

type fakeClient struct {
	text     string
	err      error
	requests []*llm.Request
}

func (f *fakeClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: []llm.ContentBlock{{Type: llm.ContentBlockTypeText, Text: f.text}}}, nil
}

func newService(client llm.Client) *Service {
	return New(Config{Logger: zerolog.Nop()}, client)
}

func TestEmptyInputIsAlwaysAClientError(t *testing.T) {
	services := map[string]*Service{
		"unconfigured": newService(nil),
		"configured":   newService(&fakeClient{text: "x"}),
	}
	ctx := context.Background()

	for name, svc := range services {
		for _, input := range []string{"", "   ", "\n\t"} {
			if _, err := svc.Latex(ctx, input); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("%s: Latex(%q) expected ErrEmptyInput, got %v", name, input, err)
			}
			if _, err := svc.LatexBlock(ctx, input); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("%s: LatexBlock(%q) expected ErrEmptyInput, got %v", name, input, err)
			}
			if _, err := svc.Table(ctx, input); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("%s: Table(%q) expected ErrEmptyInput, got %v", name, input, err)
			}
		}
	}
}

func TestUnconfiguredServiceFallsBack(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	if svc.Configured() {
		t.Error("Expected service without client to be unconfigured")
	}

	latex, err := svc.Latex(ctx, "x squared")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latex.Latex != "x squared" || latex.Source != normalize.SourceInput {
		t.Errorf("Expected echo of input, got %+v", latex)
	}
	if !errors.Is(latex.Reason, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured reason, got %v", latex.Reason)
	}

	block, err := svc.LatexBlock(ctx, "p and q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block.Latex != `\text{p and q}` {
		t.Errorf("Expected text template, got %q", block.Latex)
	}

	table, err := svc.Table(ctx, "5 columns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table.Rows, normalize.DefaultTable()) || table.Source != normalize.SourceDefault {
		t.Errorf("Expected default table, got %+v (%s)", table.Rows, table.Source)
	}
}

func TestLatex_SendsConfiguredRequest(t *testing.T) {
	client := &fakeClient{text: " \\frac{x}{y} "}
	svc := New(Config{Model: "gemini-test", Logger: zerolog.Nop()}, client)

	out, err := svc.Latex(context.Background(), "x over y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Latex != "\\frac{x}{y}" || out.Source != normalize.SourceModel {
		t.Errorf("Expected model LaTeX, got %+v", out)
	}

	if len(client.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(client.requests))
	}
	req := client.requests[0]
	if req.Model != "gemini-test" {
		t.Errorf("Expected model gemini-test, got %q", req.Model)
	}
	if req.MaxTokens != DefaultLatexMaxTokens {
		t.Errorf("Expected max tokens %d, got %d", DefaultLatexMaxTokens, req.MaxTokens)
	}
	if req.Temperature == nil || *req.Temperature != DefaultTemperature {
		t.Errorf("Expected temperature %v, got %v", DefaultTemperature, req.Temperature)
	}
	if req.System != latexSystemPrompt {
		t.Error("Expected the inline LaTeX system prompt")
	}
	if req.ResponseFormat != llm.ResponseFormatText {
		t.Errorf("Expected text response format, got %q", req.ResponseFormat)
	}
}

func TestLatexBlock_StripsAnnotations(t *testing.T) {
	client := &fakeClient{text: "```latex\np \\wedge q \\\\ \\therefore r\n```"}
	svc := newService(client)

	input := "p and q - premise\n\ntherefore r - conclusion"
	out, err := svc.LatexBlock(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Latex != "p \\wedge q \\\\ \\therefore r" {
		t.Errorf("Expected fence-free LaTeX, got %q", out.Latex)
	}

	sent := client.requests[0].Messages[0].Content[0].Text
	if sent != "p and q\ntherefore r" {
		t.Errorf("Expected annotations to be stripped, got %q", sent)
	}
	if client.requests[0].MaxTokens != DefaultBlockMaxTokens {
		t.Errorf("Expected block max tokens, got %d", client.requests[0].MaxTokens)
	}
}

func TestStripAnnotations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "x = 1 - given", want: "x = 1"},
		{in: "a - b - c", want: "a"},
		{in: "x-1", want: "x-1"},
		{in: "  line one  \n\n  line two - note ", want: "line one\nline two"},
		{in: " - only a note", want: "- only a note"},
	}
	for _, tt := range tests {
		if got := StripAnnotations(tt.in); got != tt.want {
			t.Errorf("StripAnnotations(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable_RequestsJSON(t *testing.T) {
	client := &fakeClient{text: `{"tableData":[{"cells":[{"content":"×","isHeader":true},{"content":"1","isHeader":true}]},{"cells":[{"content":"1","isHeader":false},{"content":"1","isHeader":false}]}]}`}
	svc := newService(client)

	out, err := svc.Table(context.Background(), "1x1 multiplication table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != normalize.SourceModel || len(out.Rows) != 2 {
		t.Errorf("Expected model table with 2 rows, got %+v (%s)", out.Rows, out.Source)
	}

	req := client.requests[0]
	if req.ResponseFormat != llm.ResponseFormatJSON {
		t.Errorf("Expected JSON response format, got %q", req.ResponseFormat)
	}
	if req.MaxTokens != DefaultTableMaxTokens {
		t.Errorf("Expected table max tokens, got %d", req.MaxTokens)
	}
	if !strings.Contains(req.Messages[0].Content[0].Text, "1x1 multiplication table") {
		t.Errorf("Expected prompt in user message, got %q", req.Messages[0].Content[0].Text)
	}
}

func TestTable_MalformedOutputUsesPrompt(t *testing.T) {
	svc := newService(&fakeClient{text: "Sorry, I can't draw tables."})

	out, err := svc.Table(context.Background(), "table with 4 columns and 2 rows")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != normalize.SourceHeuristic {
		t.Errorf("Expected heuristic source, got %q", out.Source)
	}
	if len(out.Rows) != 2 || len(out.Rows[0].Cells) != 4 {
		t.Errorf("Expected 2x4 table, got %+v", out.Rows)
	}
}

func TestHardErrorsReachTheCaller(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "blocked", err: llm.NewBlockedError("blocked", nil), check: llm.IsBlockedError},
		{name: "stopped", err: llm.NewStoppedError("stopped", nil), check: llm.IsStoppedError},
		{name: "auth", err: llm.NewAuthError("bad key", 401, nil), check: llm.IsAuthError},
		{name: "rate limit", err: llm.NewRateLimitError("slow down", nil, nil), check: llm.IsRateLimitError},
		{name: "untyped invalid key", err: errors.New("400 API_KEY_INVALID"), check: llm.IsAuthError},
		{name: "untyped rate limit", err: errors.New("RATE_LIMIT_EXCEEDED"), check: llm.IsRateLimitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&fakeClient{err: tt.err})
			ctx := context.Background()

			if _, err := svc.Latex(ctx, "x"); !tt.check(err) {
				t.Errorf("Latex: unexpected error %v", err)
			}
			if _, err := svc.LatexBlock(ctx, "x"); !tt.check(err) {
				t.Errorf("LatexBlock: unexpected error %v", err)
			}
			if _, err := svc.Table(ctx, "x"); !tt.check(err) {
				t.Errorf("Table: unexpected error %v", err)
			}
		})
	}
}

func TestSoftErrorsFallBack(t *testing.T) {
	providerErr := &llm.Error{Type: llm.ErrorTypeNetwork, Message: "connection refused"}
	svc := newService(&fakeClient{err: providerErr})
	ctx := context.Background()

	latex, err := svc.Latex(ctx, "theta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latex.Latex != "theta" || !errors.Is(latex.Reason, providerErr) {
		t.Errorf("Expected echo with provider reason, got %+v", latex)
	}

	block, err := svc.LatexBlock(ctx, "theta - angle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block.Latex != `\text{theta - angle}` || block.Source != normalize.SourceDefault {
		t.Errorf("Expected template over the original text, got %+v", block)
	}

	table, err := svc.Table(ctx, "6 columns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Source != normalize.SourceDefault || !reflect.DeepEqual(table.Rows, normalize.DefaultTable()) {
		t.Errorf("Expected default table, got %+v (%s)", table.Rows, table.Source)
	}
}
