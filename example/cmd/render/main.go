package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/solheim-studio/heimdall"
	"github.com/solheim-studio/heimdall/example"
)

// buttonImport loads the instrumented demo component from the harness.
const buttonImport = `const Button = (await import("/modules/button.js")).default;`

func main() {
	harness, err := heimdall.NewHarness(example.Modules(), heimdall.HarnessOptions{
		Title: "heimdall example",
	})
	if err != nil {
		log.Fatal(err)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/*", harness)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatal(err)
	}
	server := &http.Server{Handler: router}
	go server.Serve(listener)
	defer server.Close()

	baseURL := fmt.Sprintf("http://%s/", listener.Addr())
	log.Printf("Harness listening on %s", baseURL)

	env := heimdall.New(
		heimdall.WithBaseURL(baseURL),
		heimdall.WithFormats(heimdall.FormatJSON, heimdall.FormatText, heimdall.FormatLCOV),
		heimdall.WithReportDir("coverage"),
		heimdall.WithExecTimeout(30*time.Second),
	)

	ctx := context.Background()
	if err := env.Setup(ctx); err != nil {
		log.Fatalf("setup failed: %v", err)
	}
	defer func() {
		if err := env.Teardown(context.Background()); err != nil {
			log.Printf("teardown: %v", err)
		}
	}()

	first, err := env.RenderExpr(ctx, `<Button label="First"/>`, buttonImport)
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}
	log.Printf("Rendered into %s", first)

	lazy, err := env.RenderExpr(ctx, `() => <Button label="Lazy"/>`, buttonImport)
	if err != nil {
		log.Fatalf("thunk render failed: %v", err)
	}
	log.Printf("Rendered thunk into %s", lazy)

	composite, err := env.RenderExpr(ctx, `<section><Button/><Button label="Third"/></section>`, buttonImport)
	if err != nil {
		log.Fatalf("composite render failed: %v", err)
	}
	log.Printf("Rendered composite into %s", composite)

	report, err := env.Report(heimdall.FormatText)
	if err != nil {
		log.Fatalf("report failed: %v", err)
	}

	fmt.Println("")
	fmt.Printf("Containers: %d\n", len(env.Containers()))
	fmt.Println(string(report))
	fmt.Println("Reports land in ./coverage on teardown")
}
