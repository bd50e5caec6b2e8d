package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/auth"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/config"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/webhookhttp"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	provider, err := auth.NewProvider(cfg.TokenSource, auth.Options{Token: cfg.ReadToken, Path: cfg.TokenFile})
	if err != nil {
		log.Fatalf("invalid token-source: %v", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), webhookhttp.RequestID())

	err = webhookhttp.RegisterGinRoutes(r, webhookhttp.Config{
		BasePath:         cfg.BasePath,
		RecordsDir:       cfg.RecordsDir,
		TokenProvider:    provider.Token,
		MaskPII:          cfg.MaskPII,
		StrictLeadFields: cfg.StrictLeadFields,
		SerializeWrites:  cfg.SerializeWrites,
		ListLimit:        cfg.ListLimit,
	})
	if err != nil {
		log.Fatalf("register routes failed: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	local := addrForLocalClient(cfg.Addr())
	log.Printf("realflow server listening on http://%s (records=%s mask_pii=%v token=%v)",
		cfg.Addr(), cfg.RecordsDir, cfg.MaskPII, cfg.ReadToken != "" || cfg.TokenSource != "static")
	log.Printf("try: curl http://%s/webhook", local)
	log.Printf(`try: curl http://%s/webhook -H 'Content-Type: application/json' -d '{"message":{"call":{"id":"abc123"},"toolCalls":[{"function":{"name":"Set_Lead_Field","arguments":{"field":"phone","value":"5551234567"}}}]}}'`, local)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// addrForLocalClient 将通配监听地址转换为本机可访问的地址，仅用于打印示例命令。
func addrForLocalClient(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
