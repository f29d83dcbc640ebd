package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodstore/internal/checkout"
	"foodstore/internal/logging"
	"foodstore/internal/orderapi"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	cartPath string
	name     string
	cash     string
	apiURL   string
	token    string
	timeout  time.Duration
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cartPath, "cart", "cart.json", "path to the cart JSON file")
	flag.StringVar(&opts.name, "name", "", "name the order is placed on behalf of")
	flag.StringVar(&opts.cash, "cash", "", "cash tendered")
	flag.StringVar(&opts.apiURL, "api", getEnv("FOODSTORE_API_URL", "http://localhost:8080/v1"), "order API base URL")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()
	opts.token = os.Getenv("FOODSTORE_TOKEN")

	logger, err := logging.NewLogger(getEnv("LOG_LEVEL", "warn"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := orderapi.NewClient(opts.apiURL, &http.Client{Timeout: opts.timeout})
	os.Exit(run(ctx, os.Stdout, opts, client, logger))
}

func run(ctx context.Context, w io.Writer, opts options, creator checkout.OrderCreator, logger *zap.SugaredLogger) int {
	cart, err := loadCart(opts.cartPath)
	if err != nil {
		fmt.Fprintln(w, err)
		return 2
	}

	form, errs := checkout.ParseForm(opts.name, opts.cash)
	if !errs.Valid() {
		fmt.Fprintln(w, "Payment rejected:")
		printFieldErrors(w, errs)
		return 1
	}

	if err := printSummary(w, cart, form.Cash); err != nil {
		fmt.Fprintln(w, err)
		return 2
	}

	store := checkout.NewStore()
	flow := checkout.NewFlow(creator, store, logger)

	payload, err := flow.Submit(ctx, form, cart, opts.token)
	if err != nil {
		var verrs checkout.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintln(w, "Payment rejected:")
			printFieldErrors(w, verrs)
			return 1
		}
		fmt.Fprintf(w, "Payment %s: %v\n", store.State().Status, err)
		return 1
	}

	fmt.Fprintf(w, "Payment %s\n", store.State().Status)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		w.Write(payload)
	} else {
		pretty.WriteTo(w)
	}
	fmt.Fprintln(w)

	return 0
}
