package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nexova-agent/internal/adapters/driving/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP channel: the web chatbox, POST /chat, POST /chat-whatsapp,
and the WhatsApp webhook (GET/POST /webhook).

The listen address comes from server.addr or PORT unless --addr is given.
On interrupt the server stops accepting requests and waits for in-flight
webhook replies before exiting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

// newWebServer is replaced in tests.
var newWebServer = func(ports *web.Ports, cfg web.Config) (server, error) {
	return web.NewServer(ports, cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	srv, err := newWebServer(&web.Ports{Chat: chatService, Relay: relayService}, web.Config{
		VerifyToken:     settings.WhatsApp.VerifyToken,
		ShutdownTimeout: settings.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	addr := settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	cmd.Printf("Nexova listening on %s\n", addr)
	if !settings.LLM.IsConfigured() {
		cmd.Printf("Warning: %s backend is not configured; replies will report it\n", settings.LLM.Provider)
	}
	if !settings.WhatsApp.IsConfigured() {
		cmd.Println("Warning: WHAPI_TOKEN is not set; WhatsApp delivery will fail")
	}

	return srv.Run(cmd.Context(), addr)
}
