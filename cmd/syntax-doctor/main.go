// Command syntax-doctor checks that the Gemini API key works: it lists the
// models the key can see and runs one smoke-test prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PabloGalante/syntax-chat/internal/adapters/llm"
	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/config"
	"github.com/PabloGalante/syntax-chat/internal/domain"
)

const smokePrompt = "Hello, simple test."

// modelClient is the part of llm.GeminiClient the doctor needs.
type modelClient interface {
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
	Generate(ctx context.Context, messages []domain.Message, opts domain.GenerationOptions) (string, error)
}

func main() {
	os.Exit(doctor(os.Args[1:], os.Stdout, os.Stderr))
}

// doctor parses args and runs the checks. It returns the exit code so the
// report file is closed before os.Exit.
func doctor(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("syntax-doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	model := fs.String("model", "gemini-flash-latest", "model used for the smoke test")
	out := fs.String("out", "", "also write the report to this file")
	timeout := fs.Duration("timeout", 60*time.Second, "timeout for each API call")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		w = io.MultiWriter(stdout, f)
	}

	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if !reportKey(w, cfg.APIKey) {
		return 1
	}

	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{APIKey: cfg.APIKey, DefaultModel: *model})
	if err != nil {
		fmt.Fprintf(w, "CRITICAL ERROR creating client: %v\n", err)
		return 1
	}

	if err := run(ctx, w, client, *model, *timeout); err != nil {
		return 1
	}
	return 0
}

// reportKey prints whether a key is configured, showing only its prefix.
func reportKey(w io.Writer, key string) bool {
	if key == "" {
		fmt.Fprintln(w, "ERROR: GOOGLE_API_KEY not found.")
		return false
	}
	prefix := key
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Fprintf(w, "API Key found (starts with: %s...)\n", prefix)
	return true
}

// run lists the models and smoke-tests one of them. It returns an error when
// either step fails, after writing the failure to w.
func run(ctx context.Context, w io.Writer, client modelClient, model string, timeout time.Duration) error {
	fmt.Fprintln(w, "Listing models...")

	listCtx, cancel := context.WithTimeout(ctx, timeout)
	models, err := client.ListModels(listCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(w, "CRITICAL ERROR listing models: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "Total models found: %d\n", len(models))
	if len(models) == 0 {
		fmt.Fprintln(w, "No models found! (Possible API Key scope issue?)")
	}
	for _, m := range models {
		mark := "         "
		if m.SupportsGenerate() {
			mark = "AVAILABLE"
		}
		fmt.Fprintf(w, "%s %s | Methods: %v\n", mark, m.Name, m.Actions)
	}

	fmt.Fprintln(w, "\n--- Connection Test ---")
	fmt.Fprintf(w, "Testing model: %s\n", model)

	gw := conversation.NewGateway(client, domain.GenerationOptions{Model: model, Temperature: 0.7}, timeout)
	reply, failure := gw.Complete(ctx, domain.Transcript{{Role: domain.RoleUser, Content: smokePrompt}})
	if failure != nil {
		fmt.Fprintf(w, "Failed with error [%s]: %s\n", failure.Kind, failure.Description)
		fmt.Fprintln(w, conversation.Hint(failure.Kind))
		return errors.New("smoke test failed")
	}

	fmt.Fprintf(w, "Success! Response: %s (%s)\n", reply.Content, reply.Elapsed.Round(time.Millisecond))
	return nil
}
