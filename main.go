package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"LicenseKeyAdmin/cmd"
)

func main() {
	// Завершение по сигналу отменяет незаконченные запросы к бэкенду
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
