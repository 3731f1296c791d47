// Command orbit is a CLI for a hosted model-routing API: send a text
// or image prompt to a named model, stream or block on the response,
// and keep the API credential in the platform secure store.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/rdelgado/orbit/internal/chat"
	"github.com/rdelgado/orbit/internal/config"
	"github.com/rdelgado/orbit/internal/credential"
	"github.com/rdelgado/orbit/internal/observability"
	"github.com/rdelgado/orbit/internal/openrouter"
	"github.com/rdelgado/orbit/internal/vision"
)

const usage = `orbit - talk to models behind a routing API

Usage:
  orbit ask [flags] <prompt...>       send a text prompt
  orbit describe [flags] <image>      generate alt text for an image
  orbit auth set [key]                store the API key securely
  orbit model get                     show the default model
  orbit model set <model>             change and persist the default model

Run "orbit <command> --help" for command flags.`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	switch args[0] {
	case "ask":
		runAsk(args[1:])
	case "describe":
		runDescribe(args[1:])
	case "auth":
		runAuth(args[1:])
	case "model":
		runModel(args[1:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		// Bare arguments are treated as a prompt.
		runAsk(args)
	}
}

func buildContainer(verbose bool) *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(func() (*zap.Logger, error) {
		return observability.InitLogger(verbose)
	}); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Credential storage
	if err := container.Provide(credential.NewStore); err != nil {
		log.Fatalf("Failed to provide credential store: %v", err)
	}

	// Wire client
	if err := container.Provide(openrouter.NewClient); err != nil {
		log.Fatalf("Failed to provide routing client: %v", err)
	}

	// Chat services
	if err := container.Provide(chat.NewModelStore); err != nil {
		log.Fatalf("Failed to provide model store: %v", err)
	}
	if err := container.Provide(func() *chat.Aggregator {
		return chat.NewAggregator(os.Stdout)
	}); err != nil {
		log.Fatalf("Failed to provide aggregator: %v", err)
	}
	if err := container.Provide(chat.NewService); err != nil {
		log.Fatalf("Failed to provide chat service: %v", err)
	}

	return container
}

func runAsk(args []string) {
	fs := pflag.NewFlagSet("ask", pflag.ExitOnError)
	model := fs.StringP("model", "m", "", "model to use (defaults to the stored default)")
	temperature := fs.Float64P("temperature", "t", 0.7, "sampling temperature, forwarded unclamped")
	maxTokens := fs.Int("max-tokens", 1000, "maximum tokens to generate")
	stream := fs.BoolP("stream", "s", false, "stream the response token by token")
	returnValue := fs.BoolP("return", "r", false, "capture the response as a value")
	outFile := fs.StringP("out", "o", "", "write the response text to this file")
	full := fs.Bool("full", false, "retain raw provider records alongside the text")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging")
	_ = fs.Parse(args)

	prompt := strings.Join(fs.Args(), " ")

	container := buildContainer(*verbose)
	err := container.Invoke(func(service *chat.Service, cfg *config.ChatConfig) error {
		opts := chat.DefaultOptions(cfg)
		opts.Model = *model
		opts.Stream = *stream
		opts.Return = *returnValue
		opts.OutFile = *outFile
		opts.FullFidelity = *full
		if fs.Changed("temperature") {
			opts.Temperature = *temperature
		}
		if fs.Changed("max-tokens") {
			opts.MaxTokens = *maxTokens
		}

		_, completeErr := service.Complete(context.Background(), prompt, opts)
		return completeErr
	})
	if err != nil {
		log.Fatalf("ask failed: %v", err)
	}
}

func runDescribe(args []string) {
	fs := pflag.NewFlagSet("describe", pflag.ExitOnError)
	model := fs.StringP("model", "m", "", "vision-capable model to use")
	outFile := fs.StringP("out", "o", "", "write the alt text to this file")
	copyFlag := fs.BoolP("copy", "c", false, "copy the alt text to the clipboard")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatalf("describe expects exactly one image path")
	}
	imagePath := fs.Arg(0)

	container := buildContainer(*verbose)
	err := container.Invoke(func(service *chat.Service, cfg *config.ChatConfig) error {
		mimeType, base64Data, loadErr := vision.LoadImage(imagePath)
		if loadErr != nil {
			return loadErr
		}

		opts := chat.DefaultOptions(cfg)
		opts.Model = *model
		opts.OutFile = *outFile
		// Clipboard copy needs the text back as a value.
		opts.Return = *copyFlag

		result, completeErr := service.CompleteContent(
			context.Background(),
			vision.AltTextContent(mimeType, base64Data),
			opts,
		)
		if completeErr != nil {
			return completeErr
		}

		if *copyFlag && result != nil {
			if clipErr := clipboard.WriteAll(result.TextContent); clipErr != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", clipErr)
			}
			fmt.Fprintln(os.Stderr, "Copied alt text to clipboard.")
		}

		return nil
	})
	if err != nil {
		log.Fatalf("describe failed: %v", err)
	}
}

func runAuth(args []string) {
	if len(args) == 0 || args[0] != "set" {
		log.Fatalf("usage: orbit auth set [key]")
	}

	key := ""
	if len(args) > 1 {
		key = args[1]
	} else {
		fmt.Fprint(os.Stderr, "API key: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("failed to read key: %v", err)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		log.Fatalf("API key cannot be empty")
	}

	container := buildContainer(false)
	err := container.Invoke(func(store credential.Store) error {
		return store.Set(context.Background(), key)
	})
	if err != nil {
		log.Fatalf("failed to store API key: %v", err)
	}

	fmt.Println("API key stored.")
}

func runModel(args []string) {
	if len(args) == 0 {
		log.Fatalf("usage: orbit model get | orbit model set <model>")
	}

	switch args[0] {
	case "get":
		container := buildContainer(false)
		err := container.Invoke(func(models *chat.ModelStore) {
			fmt.Println(models.Get())
		})
		if err != nil {
			log.Fatalf("model get failed: %v", err)
		}
	case "set":
		if len(args) != 2 {
			log.Fatalf("usage: orbit model set <model>")
		}
		container := buildContainer(false)
		err := container.Invoke(func(models *chat.ModelStore) error {
			if setErr := models.Set(args[1]); setErr != nil {
				return setErr
			}
			return persistDefaultModel(args[1])
		})
		if err != nil {
			log.Fatalf("model set failed: %v", err)
		}
		fmt.Printf("Default model set to %s.\n", args[1])
	default:
		log.Fatalf("usage: orbit model get | orbit model set <model>")
	}
}

// persistDefaultModel records the default model in the .env file that
// config.Load reads at startup, so it survives across invocations.
func persistDefaultModel(model string) error {
	envMap, err := godotenv.Read(".env")
	if err != nil {
		envMap = map[string]string{}
	}
	envMap["ORBIT_DEFAULT_MODEL"] = model

	if err := godotenv.Write(envMap, ".env"); err != nil {
		return fmt.Errorf("failed to persist default model: %w", err)
	}

	return nil
}
