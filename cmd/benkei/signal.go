package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SignalHandler cancels its context on SIGINT/SIGTERM so an in-flight
// conversation can unwind cleanly.
type SignalHandler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sigChan chan os.Signal
}

func NewSignalHandler(ctx context.Context) *SignalHandler {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	return &SignalHandler{
		ctx:     ctx,
		cancel:  cancel,
		sigChan: sigChan,
	}
}

func (s *SignalHandler) Context() context.Context {
	return s.ctx
}

func (s *SignalHandler) Start() {
	go func() {
		<-s.sigChan
		fmt.Println("\nReceived shutdown signal...")
		s.cancel()
	}()
}

func (s *SignalHandler) Stop() {
	signal.Stop(s.sigChan)
	s.cancel()
}
