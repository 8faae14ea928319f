package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/interop-desk/mcpgate/internal/agent"
	"github.com/interop-desk/mcpgate/internal/config"
)

func newAgentCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run the conversational agent service",
		Long: `Run the agent service that answers desktop chat questions by driving
an LLM over the gateway's tools.

The OpenAI-compatible backend is configured through OPENAI_* environment
variables (OPENAI_API_KEY, OPENAI_MODEL, optionally OPENAI_BASE_URL).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runAgent(cmd.Context(), cfg)
		},
	}
}

func runAgent(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg.Log).With().Str("service", "mcpgate-agent").Logger()

	llmCfg, err := agent.LoadOpenAIConfig()
	if err != nil {
		return err
	}
	llm := agent.NewOpenAIClient(llmCfg)
	log.Info().Str("model", llm.ModelName()).Msg("model ready")

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	tools, err := agent.DialGateway(dialCtx, cfg.Agent.GatewayURL)
	if err != nil {
		return err
	}
	defer func() { _ = tools.Close() }()
	log.Info().Str("gateway", cfg.Agent.GatewayURL).Msg("connected to MCP gateway")

	srv := agent.NewServer(agent.New(llm, tools, log), log)

	router := mux.NewRouter()
	srv.Routes(router)

	server := &http.Server{
		Addr:         cfg.AgentAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", server.Addr).Msg("agent service listening")
	return serveUntilSignal(ctx, server, log)
}
